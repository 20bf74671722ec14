//go:build !ios && !android && (amd64 || arm64)

package vsgo

import "unsafe"

// Opaque engine handles. A nil handle means "absent".
type (
	ScriptRef = unsafe.Pointer
	NodeRef   = unsafe.Pointer
	FrameRef  = unsafe.Pointer
)

// Engine is the boundary to the frame-generation engine.
//
// All methods are synchronous. GetFrame and the plane accessors must be safe
// for concurrent use on the same node; VapourSynth guarantees this, and
// Source relies on it to run fetches in parallel. Every other method is only
// called from the goroutine that owns the clip.
type Engine interface {
	// Evaluate evaluates script against path. On failure any handle the
	// engine created has already been released and the returned error
	// carries the engine diagnostic (see DiagnosticError).
	Evaluate(script []byte, path string) (ScriptRef, error)

	// OutputNode returns output node index of a script, or nil.
	OutputNode(s ScriptRef, index int) NodeRef

	// VideoInfo returns the node's metadata.
	VideoInfo(n NodeRef) VideoInfo

	// GetFrame produces frame index of node n. The frame must be released
	// with FreeFrame.
	GetFrame(n NodeRef, index int) (FrameRef, error)

	// PlaneStride returns the distance in bytes between rows of plane p.
	PlaneStride(f FrameRef, p int) int

	// PlaneWidth returns the width in pixels of plane p.
	PlaneWidth(f FrameRef, p int) int

	// PlaneHeight returns the height in pixels of plane p.
	PlaneHeight(f FrameRef, p int) int

	// PlaneData returns the read-only pixel data of plane p, stride*height
	// bytes long. It aliases engine memory valid until FreeFrame.
	PlaneData(f FrameRef, p int) []byte

	FreeFrame(f FrameRef)
	FreeNode(n NodeRef)
	FreeScript(s ScriptRef)
}
