//go:build !ios && !android && (amd64 || arm64)

// Package vsgo turns a VapourSynth script into a concurrency-safe frame
// service, without CGO, using purego.
//
// Open evaluates a script and validates its output clip. The returned Source
// reports immutable clip metadata and fetches frames asynchronously into
// caller-owned buffers:
//
//	src, err := vsgo.Open(script, "clip.vpy")
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
//	buf := make([]byte, src.Info().FrameSize)
//	src.GetFrameAsync(0, buf, func(err error) {
//		// buf holds frame 0, planes packed back to back
//	})
//
// Pixel data is copied verbatim in the engine's planar layout. Stream wraps
// a Source as a sequential YUV4MPEG2 or raw io.Reader.
//
// The low-level packages (vsscript, vsapi) expose the engine directly.
package vsgo

import (
	"github.com/obinnaokechukwu/vsgo/internal/bindings"
	"github.com/obinnaokechukwu/vsgo/vsapi"
	"github.com/obinnaokechukwu/vsgo/vsscript"
)

// Init loads the VSScript library, initializes the process-wide VapourSynth
// environment and binds the core API. It is called by Open and NativeEngine,
// but can be called explicitly to check for errors. It is safe to call
// multiple times. After Shutdown it returns an error.
func Init() error {
	if err := vsscript.Init(); err != nil {
		return err
	}
	return vsapi.Register(vsscript.API(), vsscript.APIVersion())
}

// Shutdown finalizes the VapourSynth environment. All sources must be closed
// first. Only the first call has an effect.
func Shutdown() {
	vsscript.Finalize()
}

// SetLibraryPath sets an explicit path to the VSScript library.
// It must be called before Init.
func SetLibraryPath(path string) {
	bindings.SetLibraryPath(path)
}

// IsLoaded returns true if the VapourSynth environment is initialized.
func IsLoaded() bool {
	return bindings.IsLoaded() && vsscript.IsInitialized()
}

// APIVersion returns the VSAPI version in use as major, minor.
// Both are 0 before Init.
func APIVersion() (major, minor int) {
	v := vsscript.APIVersion()
	return int(v >> 16), int(v & 0xffff)
}
