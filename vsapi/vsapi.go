//go:build !ios && !android && (amd64 || arm64)

// Package vsapi provides bindings to the VapourSynth core API (VSAPI, API 3).
//
// VSAPI is a table of function pointers handed out by VSScript. Register
// reads the entries vsgo needs by slot and binds them with purego.
package vsapi

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/vsgo/internal/bindings"
	"github.com/obinnaokechukwu/vsgo/internal/platform"
)

// Frame is an opaque const VSFrameRef pointer.
type Frame = unsafe.Pointer

// Node is an opaque VSNodeRef pointer.
type Node = unsafe.Pointer

// Slots of the VSAPI struct (VapourSynth.h, API 3.6).
const (
	slotFreeFrame            = 6
	slotFreeNode             = 7
	slotGetFrame             = 24
	slotGetStride            = 30
	slotGetReadPtr           = 31
	slotGetVideoInfo         = 38
	slotGetFrameWidth        = 41
	slotGetFrameHeight       = 42
	slotAddMessageHandler    = 74
	slotRemoveMessageHandler = 75
)

// errorBufferSize matches the diagnostic buffer vspipe passes to getFrame.
const errorBufferSize = 1024

// ErrNoMessageHandlers is returned when the loaded core predates API 3.6.
var ErrNoMessageHandlers = errors.New("vsgo: message handlers need VapourSynth API 3.6")

var (
	vsFreeFrame            func(f unsafe.Pointer)
	vsFreeNode             func(node unsafe.Pointer)
	vsGetFrame             func(n int32, node unsafe.Pointer, errorMsg *byte, bufSize int32) unsafe.Pointer
	vsGetStride            func(f unsafe.Pointer, plane int32) int32
	vsGetReadPtr           func(f unsafe.Pointer, plane int32) unsafe.Pointer
	vsGetVideoInfo         func(node unsafe.Pointer) unsafe.Pointer
	vsGetFrameWidth        func(f unsafe.Pointer, plane int32) int32
	vsGetFrameHeight       func(f unsafe.Pointer, plane int32) int32
	vsAddMessageHandler    func(handler, free uintptr, userData uintptr) int32
	vsRemoveMessageHandler func(id int32) int32

	registerMu sync.Mutex
	registered bool
)

// slot returns function pointer i of a VSAPI table.
func slot(api unsafe.Pointer, i int) uintptr {
	return *(*uintptr)(unsafe.Add(api, uintptr(i)*platform.PointerSize))
}

// Register binds the VSAPI functions from api. version is the API version
// the table was requested with (major<<16 | minor).
// It is safe to call multiple times; only the first call binds.
func Register(api unsafe.Pointer, version int32) error {
	if api == nil {
		return bindings.ErrNotLoaded
	}

	registerMu.Lock()
	defer registerMu.Unlock()
	if registered {
		return nil
	}

	purego.RegisterFunc(&vsFreeFrame, slot(api, slotFreeFrame))
	purego.RegisterFunc(&vsFreeNode, slot(api, slotFreeNode))
	purego.RegisterFunc(&vsGetFrame, slot(api, slotGetFrame))
	purego.RegisterFunc(&vsGetStride, slot(api, slotGetStride))
	purego.RegisterFunc(&vsGetReadPtr, slot(api, slotGetReadPtr))
	purego.RegisterFunc(&vsGetVideoInfo, slot(api, slotGetVideoInfo))
	purego.RegisterFunc(&vsGetFrameWidth, slot(api, slotGetFrameWidth))
	purego.RegisterFunc(&vsGetFrameHeight, slot(api, slotGetFrameHeight))

	if version >= 3<<16|6 {
		purego.RegisterFunc(&vsAddMessageHandler, slot(api, slotAddMessageHandler))
		purego.RegisterFunc(&vsRemoveMessageHandler, slot(api, slotRemoveMessageHandler))
	}

	registered = true
	return nil
}

// IsRegistered reports whether Register has bound the function table.
func IsRegistered() bool {
	registerMu.Lock()
	defer registerMu.Unlock()
	return registered
}

// FrameError is returned when the core fails to produce a frame.
type FrameError struct {
	N       int
	Message string
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	return fmt.Sprintf("vsapi: getFrame %d: %s", e.N, e.Message)
}

// GetFrame synchronously produces frame n of node.
// The returned frame must be freed with FreeFrame.
func GetFrame(n int, node Node) (Frame, error) {
	if vsGetFrame == nil {
		return nil, bindings.ErrNotLoaded
	}
	var msg [errorBufferSize]byte
	f := vsGetFrame(int32(n), node, &msg[0], errorBufferSize)
	if f == nil {
		return nil, &FrameError{N: n, Message: cString(msg[:])}
	}
	return f, nil
}

// FreeFrame frees a frame reference and sets the pointer to nil.
// Safe to call with a nil pointer.
func FreeFrame(f *Frame) {
	if f == nil || *f == nil || vsFreeFrame == nil {
		return
	}
	vsFreeFrame(*f)
	*f = nil
}

// FreeNode frees a node reference and sets the pointer to nil.
// Safe to call with a nil pointer.
func FreeNode(node *Node) {
	if node == nil || *node == nil || vsFreeNode == nil {
		return
	}
	vsFreeNode(*node)
	*node = nil
}

// GetStride returns the distance in bytes between rows of a plane.
func GetStride(f Frame, plane int) int {
	if f == nil || vsGetStride == nil {
		return 0
	}
	return int(vsGetStride(f, int32(plane)))
}

// GetReadPtr returns the start of a plane's pixel data.
func GetReadPtr(f Frame, plane int) unsafe.Pointer {
	if f == nil || vsGetReadPtr == nil {
		return nil
	}
	return vsGetReadPtr(f, int32(plane))
}

// GetFrameWidth returns the width in pixels of a plane.
func GetFrameWidth(f Frame, plane int) int {
	if f == nil || vsGetFrameWidth == nil {
		return 0
	}
	return int(vsGetFrameWidth(f, int32(plane)))
}

// GetFrameHeight returns the height in pixels of a plane.
func GetFrameHeight(f Frame, plane int) int {
	if f == nil || vsGetFrameHeight == nil {
		return 0
	}
	return int(vsGetFrameHeight(f, int32(plane)))
}

// PlaneData returns a plane's pixel data as a read-only slice of
// stride*height bytes. The slice aliases engine memory and is only valid
// until the frame is freed.
func PlaneData(f Frame, plane int) []byte {
	ptr := GetReadPtr(f, plane)
	if ptr == nil {
		return nil
	}
	size := GetStride(f, plane) * GetFrameHeight(f, plane)
	if size <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

// GetVideoInfo returns a copy of the node's video info.
func GetVideoInfo(node Node) VideoInfo {
	if node == nil || vsGetVideoInfo == nil {
		return VideoInfo{}
	}
	return decodeVideoInfo(vsGetVideoInfo(node))
}

// AddMessageHandler installs a core message handler. handler and free are
// purego callbacks; userData is passed back to both.
// It returns the handler id used by RemoveMessageHandler.
func AddMessageHandler(handler, free uintptr, userData uintptr) (int, error) {
	if vsAddMessageHandler == nil {
		if !IsRegistered() {
			return 0, bindings.ErrNotLoaded
		}
		return 0, ErrNoMessageHandlers
	}
	return int(vsAddMessageHandler(handler, free, userData)), nil
}

// RemoveMessageHandler removes a handler added by AddMessageHandler.
func RemoveMessageHandler(id int) error {
	if vsRemoveMessageHandler == nil {
		return ErrNoMessageHandlers
	}
	if vsRemoveMessageHandler(int32(id)) == 0 {
		return fmt.Errorf("vsgo: no message handler with id %d", id)
	}
	return nil
}

// cString converts a NUL-terminated buffer to a Go string.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
