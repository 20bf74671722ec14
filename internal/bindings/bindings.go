//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the VapourSynth VSScript shared library
// with purego.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/vsgo/internal/platform"
)

// ErrNotLoaded is returned when VapourSynth functions are called before Load().
var ErrNotLoaded = errors.New("vsgo: VapourSynth library not loaded; call vsgo.Init() first")

// ErrLibraryNotFound is returned when the VSScript library cannot be found.
var ErrLibraryNotFound = errors.New("vsgo: VapourSynth library not found")

// LibraryEnv names the environment variable holding an explicit path to the
// VSScript library. It is consulted before any search path.
const LibraryEnv = "VAPOURSYNTH_LIB"

// scriptVersions lists the sonames tried, most specific first.
var scriptVersions = []int{0, platform.Unversioned}

var (
	libVSScript uintptr
	libPath     string

	explicitPath string
	pathMu       sync.Mutex

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// SetLibraryPath sets an explicit path to the VSScript library.
// It only has an effect before the first call to Load.
func SetLibraryPath(path string) {
	pathMu.Lock()
	defer pathMu.Unlock()
	explicitPath = path
}

// IsLoaded returns true if the VSScript library has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the VSScript library.
// It is safe to call multiple times; subsequent calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	pathMu.Lock()
	path := explicitPath
	pathMu.Unlock()

	if path == "" {
		path = os.Getenv(LibraryEnv)
	}
	if path != "" {
		lib, err := tryOpen(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		libVSScript, libPath = lib, path
		return nil
	}

	lib, found, err := loadLibrary(platform.ScriptLibraryName(), scriptVersions)
	if err != nil {
		return fmt.Errorf("loading VSScript: %w", err)
	}
	libVSScript, libPath = lib, found
	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			fullPath := filepath.Join(searchPath, platform.FormatLibraryName(name, ver))
			if lib, err := tryOpen(fullPath); err == nil {
				return lib, fullPath, nil
			}
		}
	}

	// Let the system loader resolve the bare names.
	for _, ver := range versions {
		libName := platform.FormatLibraryName(name, ver)
		if lib, err := tryOpen(libName); err == nil {
			return lib, libName, nil
		}
	}

	return 0, "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen opens a library with RTLD_NOW | RTLD_GLOBAL.
// VSScript pulls in libvapoursynth and Python, which resolve symbols globally.
func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// FindLibrary searches for the VSScript library and returns its full path.
// This is useful for diagnostics.
func FindLibrary() (string, error) {
	name := platform.ScriptLibraryName()
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range scriptVersions {
			fullPath := filepath.Join(searchPath, platform.FormatLibraryName(name, ver))
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",                 // Apple Silicon
			"/usr/local/lib",                    // Intel
			"/opt/homebrew/opt/vapoursynth/lib", // Homebrew keg
			"/usr/local/opt/vapoursynth/lib",    // Homebrew keg (Intel)
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		paths = append(paths,
			"C:\\Program Files\\VapourSynth",
			"C:\\Program Files\\VapourSynth\\core",
		)

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// LibVSScript returns the VSScript library handle, or 0 before Load.
func LibVSScript() uintptr {
	return libVSScript
}

// LibraryPath returns the path the VSScript library was loaded from.
func LibraryPath() string {
	return libPath
}
