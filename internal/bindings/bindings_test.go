//go:build !ios && !android && (amd64 || arm64)

package bindings

import (
	"errors"
	"testing"
)

func TestLibrarySearchPaths(t *testing.T) {
	paths := LibrarySearchPaths()
	if len(paths) == 0 {
		t.Error("LibrarySearchPaths should return at least one path")
	}
}

func TestFindLibrary(t *testing.T) {
	// VapourSynth is optional on test machines; only the error shape is checked.
	path, err := FindLibrary()
	if err != nil {
		if !errors.Is(err, ErrLibraryNotFound) {
			t.Errorf("FindLibrary error = %v, want ErrLibraryNotFound", err)
		}
		t.Logf("VapourSynth not found (expected if not installed): %v", err)
		return
	}
	t.Logf("VSScript found at %s", path)
}

func TestLoadFromMissingPath(t *testing.T) {
	if _, _, err := loadLibrary("vsgo-does-not-exist", scriptVersions); !errors.Is(err, ErrLibraryNotFound) {
		t.Errorf("loadLibrary error = %v, want ErrLibraryNotFound", err)
	}
}

// Integration test - only runs if VapourSynth is available
func TestLoadVapourSynth(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping VapourSynth load test in short mode")
	}
	if _, err := FindLibrary(); err != nil {
		t.Skipf("VapourSynth not installed: %v", err)
	}

	if err := Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !IsLoaded() {
		t.Error("IsLoaded should be true after successful Load")
	}
	if LibVSScript() == 0 {
		t.Error("LibVSScript should be non-zero after Load")
	}
	t.Logf("VSScript loaded from %s", LibraryPath())
}
