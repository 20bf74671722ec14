//go:build !ios && !android && (amd64 || arm64)

// Package vsscript provides bindings to VapourSynth's VSScript library:
// process-wide environment setup, script evaluation and output retrieval.
package vsscript

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/vsgo/internal/bindings"
)

// Script is an opaque VSScript pointer.
type Script = unsafe.Pointer

// Node is an opaque VSNodeRef pointer.
type Node = unsafe.Pointer

// EvalFlags control vsscript_evaluateScript.
type EvalFlags int32

// FlagSetWorkingDir makes the engine chdir to the script's directory while
// evaluating (efSetWorkingDir).
const FlagSetWorkingDir EvalFlags = 1

// API versions requested through vsscript_getVSApi2.
const (
	APIVersion36 int32 = 3<<16 | 6
	APIVersion30 int32 = 3 << 16
)

var (
	// ErrFinalized is returned by Init after Finalize has run.
	ErrFinalized = errors.New("vsgo: VSScript environment already finalized")

	// ErrInitFailed is returned when vsscript_init reports failure.
	ErrInitFailed = errors.New("vsgo: failed to initialize VapourSynth environment")
)

var (
	vsscriptGetAPIVersion  func() int32
	vsscriptInit           func() int32
	vsscriptFinalize       func() int32
	vsscriptEvaluateScript func(handle *unsafe.Pointer, script string, filename string, flags int32) int32
	vsscriptGetError       func(handle unsafe.Pointer) string
	vsscriptGetOutput      func(handle unsafe.Pointer, index int32) unsafe.Pointer
	vsscriptFreeScript     func(handle unsafe.Pointer)
	vsscriptGetVSAPI       func() unsafe.Pointer
	vsscriptGetVSAPI2      func(version int32) unsafe.Pointer

	registerOnce sync.Once
	registerErr  error
)

// env tracks the process-wide environment. vsscript_init and
// vsscript_finalize are each called at most once per process.
var env struct {
	mu         sync.Mutex
	ready      bool
	finalized  bool
	api        unsafe.Pointer
	apiVersion int32
}

func register() error {
	registerOnce.Do(func() {
		if err := bindings.Load(); err != nil {
			registerErr = err
			return
		}
		lib := bindings.LibVSScript()

		purego.RegisterLibFunc(&vsscriptGetAPIVersion, lib, "vsscript_getApiVersion")
		purego.RegisterLibFunc(&vsscriptInit, lib, "vsscript_init")
		purego.RegisterLibFunc(&vsscriptFinalize, lib, "vsscript_finalize")
		purego.RegisterLibFunc(&vsscriptEvaluateScript, lib, "vsscript_evaluateScript")
		purego.RegisterLibFunc(&vsscriptGetError, lib, "vsscript_getError")
		purego.RegisterLibFunc(&vsscriptGetOutput, lib, "vsscript_getOutput")
		purego.RegisterLibFunc(&vsscriptFreeScript, lib, "vsscript_freeScript")
		purego.RegisterLibFunc(&vsscriptGetVSAPI, lib, "vsscript_getVSApi")

		// getVSApi2 appeared in VSScript 3.2; older libraries only have getVSApi.
		if sym, err := purego.Dlsym(lib, "vsscript_getVSApi2"); err == nil && sym != 0 {
			purego.RegisterFunc(&vsscriptGetVSAPI2, sym)
		}
	})
	return registerErr
}

// Init loads the library and initializes the VSScript environment.
// It is safe to call multiple times; only the first call reaches the engine.
// Calling Init after Finalize returns ErrFinalized.
func Init() error {
	if err := register(); err != nil {
		return err
	}

	env.mu.Lock()
	defer env.mu.Unlock()

	if env.finalized {
		return ErrFinalized
	}
	if env.ready {
		return nil
	}
	if vsscriptInit() == 0 {
		return ErrInitFailed
	}

	api, version := acquireAPI()
	if api == nil {
		vsscriptFinalize()
		env.finalized = true
		return errors.New("vsgo: VapourSynth API 3 is not available")
	}
	env.api = api
	env.apiVersion = version
	env.ready = true
	return nil
}

func acquireAPI() (unsafe.Pointer, int32) {
	if vsscriptGetVSAPI2 != nil {
		for _, v := range []int32{APIVersion36, APIVersion30} {
			if api := vsscriptGetVSAPI2(v); api != nil {
				return api, v
			}
		}
		return nil, 0
	}
	return vsscriptGetVSAPI(), APIVersion30
}

// Finalize tears the VSScript environment down. Only the first call after a
// successful Init reaches the engine; later calls are no-ops.
// All scripts must be freed before Finalize.
func Finalize() {
	env.mu.Lock()
	defer env.mu.Unlock()

	if !env.ready || env.finalized {
		env.finalized = true
		return
	}
	vsscriptFinalize()
	env.ready = false
	env.finalized = true
	env.api = nil
}

// IsInitialized reports whether Init has succeeded and Finalize has not run.
func IsInitialized() bool {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.ready
}

// API returns the VSAPI function table pointer, or nil before Init.
func API() unsafe.Pointer {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.api
}

// APIVersion returns the VSAPI version obtained by Init, as major<<16|minor.
func APIVersion() int32 {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.apiVersion
}

// LibraryAPIVersion returns vsscript_getApiVersion, or 0 when not loaded.
func LibraryAPIVersion() int32 {
	if err := register(); err != nil || vsscriptGetAPIVersion == nil {
		return 0
	}
	return vsscriptGetAPIVersion()
}

// EvalError is returned when a script fails to evaluate.
// Message holds the engine's diagnostic and may be empty.
type EvalError struct {
	Filename string
	Message  string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Message == "" {
		return "vsscript: failed to evaluate " + e.Filename
	}
	return "vsscript: failed to evaluate " + e.Filename + ": " + e.Message
}

// EvaluateScript evaluates script and returns its handle.
// On failure the handle the engine allocated is freed before returning, so
// callers only ever own handles from successful evaluations.
func EvaluateScript(script, filename string, flags EvalFlags) (Script, error) {
	if !IsInitialized() {
		return nil, bindings.ErrNotLoaded
	}

	var handle unsafe.Pointer
	if vsscriptEvaluateScript(&handle, script, filename, int32(flags)) != 0 {
		evalErr := &EvalError{Filename: filename}
		if handle != nil {
			evalErr.Message = vsscriptGetError(handle)
			FreeScript(&handle)
		}
		return nil, evalErr
	}
	return handle, nil
}

// GetOutput returns output node index of a script, or nil if the script did
// not set one. The returned node must be freed with vsapi.FreeNode.
func GetOutput(script Script, index int) Node {
	if script == nil || vsscriptGetOutput == nil {
		return nil
	}
	return vsscriptGetOutput(script, int32(index))
}

// GetError returns the last error recorded on a script handle.
func GetError(script Script) string {
	if script == nil || vsscriptGetError == nil {
		return ""
	}
	return vsscriptGetError(script)
}

// FreeScript frees a script handle and sets the pointer to nil.
// Safe to call with a nil pointer.
func FreeScript(script *Script) {
	if script == nil || *script == nil || vsscriptFreeScript == nil {
		return
	}
	vsscriptFreeScript(*script)
	*script = nil
}
