//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and library naming for vsgo.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// vsgo only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// PointerSize is the size in bytes of a native pointer.
const PointerSize = unsafe.Sizeof(uintptr(0))

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// Unversioned asks FormatLibraryName for the bare library name.
const Unversioned = -1

// FormatLibraryName returns the platform-specific library filename.
// A negative version returns the unversioned name. Windows DLLs carry no
// version suffix, so the version is ignored there.
//
// Examples:
//   - Linux:   FormatLibraryName("vapoursynth-script", 0) -> "libvapoursynth-script.so.0"
//   - Linux:   FormatLibraryName("vapoursynth-script", Unversioned) -> "libvapoursynth-script.so"
//   - macOS:   FormatLibraryName("vapoursynth-script", 0) -> "libvapoursynth-script.0.dylib"
//   - Windows: FormatLibraryName("VSScript", 0) -> "VSScript.dll"
func FormatLibraryName(name string, version int) string {
	switch runtime.GOOS {
	case "darwin":
		if version >= 0 {
			return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	case "windows":
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	default: // linux, freebsd
		if version >= 0 {
			return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
}

// ScriptLibraryName returns the base name of the VSScript library.
// VapourSynth ships it as "VSScript" on Windows and "vapoursynth-script" elsewhere.
func ScriptLibraryName() string {
	if runtime.GOOS == "windows" {
		return "VSScript"
	}
	return "vapoursynth-script"
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
