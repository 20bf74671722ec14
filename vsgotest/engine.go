//go:build !ios && !android && (amd64 || arm64)

// Package vsgotest provides an in-memory vsgo.Engine for tests.
//
// The engine produces deterministic plane data, pads every row with
// PadByte, and tracks the handles it hands out so tests can assert that
// every handle is released exactly once.
package vsgotest

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/obinnaokechukwu/vsgo"
)

// PadByte fills the stride padding after each row.
const PadByte = 0xEE

// Config describes the clip an Engine produces.
type Config struct {
	Info vsgo.VideoInfo

	// Padding is the number of extra bytes per row.
	Padding int

	// StrideOverride, if non-zero, is reported by PlaneStride instead of
	// the stride the plane data was laid out with.
	StrideOverride int

	// EvalError makes Evaluate fail with this diagnostic.
	EvalError string

	// NoOutput makes OutputNode return nil.
	NoOutput bool

	// FrameErrors makes GetFrame fail for the given indices.
	FrameErrors map[int]string
}

type handleKind int

const (
	kindScript handleKind = iota
	kindNode
	kindFrame
)

func (k handleKind) String() string {
	switch k {
	case kindScript:
		return "script"
	case kindNode:
		return "node"
	default:
		return "frame"
	}
}

type script struct{ id int }

type node struct{ id int }

type frame struct {
	index   int
	strides []int
	widths  []int
	heights []int
	planes  [][]byte
}

// Engine is a fake vsgo.Engine. It is safe for concurrent use.
type Engine struct {
	cfg Config

	// BeforeGetFrame, if set, runs at the start of every GetFrame call.
	BeforeGetFrame func(index int)

	mu          sync.Mutex
	nextID      int
	live        map[unsafe.Pointer]handleKind
	released    map[unsafe.Pointer]handleKind
	doubleFrees []string
	getFrames   int
	evaluated   [][]byte
}

// NewEngine returns an Engine producing the clip described by cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:      cfg,
		live:     make(map[unsafe.Pointer]handleKind),
		released: make(map[unsafe.Pointer]handleKind),
	}
}

// Pixel returns the byte at column x (in bytes) and row y of plane p of
// frame n.
func Pixel(n, p, x, y int) byte {
	return byte(n*13 + p*71 + y*7 + x*3 + 1)
}

// ExpectedFrame returns the packed bytes a fetch of frame n writes for info.
func ExpectedFrame(info vsgo.VideoInfo, n int) []byte {
	f := info.Format
	out := make([]byte, 0, vsgo.PackedSize(f, info.Width, info.Height))
	for p := 0; p < f.NumPlanes; p++ {
		w, h := f.PlaneDimensions(p, info.Width, info.Height)
		for y := 0; y < h; y++ {
			for x := 0; x < w*f.BytesPerSample; x++ {
				out = append(out, Pixel(n, p, x, y))
			}
		}
	}
	return out
}

func (e *Engine) track(p unsafe.Pointer, k handleKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live[p] = k
}

func (e *Engine) release(p unsafe.Pointer, k handleKind) {
	if p == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.live[p]; !ok {
		e.doubleFrees = append(e.doubleFrees, fmt.Sprintf("%s %p", k, p))
		return
	}
	delete(e.live, p)
	e.released[p] = k
}

func (e *Engine) newID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	return e.nextID
}

// Evaluate implements vsgo.Engine.
func (e *Engine) Evaluate(src []byte, path string) (vsgo.ScriptRef, error) {
	e.mu.Lock()
	e.evaluated = append(e.evaluated, append([]byte(nil), src...))
	e.mu.Unlock()

	if e.cfg.EvalError != "" {
		return nil, &vsgo.DiagnosticError{Message: e.cfg.EvalError}
	}
	s := unsafe.Pointer(&script{id: e.newID()})
	e.track(s, kindScript)
	return s, nil
}

// OutputNode implements vsgo.Engine.
func (e *Engine) OutputNode(s vsgo.ScriptRef, index int) vsgo.NodeRef {
	if e.cfg.NoOutput || index != 0 || s == nil {
		return nil
	}
	n := unsafe.Pointer(&node{id: e.newID()})
	e.track(n, kindNode)
	return n
}

// VideoInfo implements vsgo.Engine.
func (e *Engine) VideoInfo(n vsgo.NodeRef) vsgo.VideoInfo {
	return e.cfg.Info
}

// GetFrame implements vsgo.Engine.
func (e *Engine) GetFrame(n vsgo.NodeRef, index int) (vsgo.FrameRef, error) {
	if e.BeforeGetFrame != nil {
		e.BeforeGetFrame(index)
	}
	e.mu.Lock()
	e.getFrames++
	e.mu.Unlock()

	if msg, ok := e.cfg.FrameErrors[index]; ok {
		return nil, &vsgo.DiagnosticError{Message: msg}
	}
	if index < 0 || index >= e.cfg.Info.NumFrames {
		return nil, &vsgo.DiagnosticError{Message: fmt.Sprintf("frame %d out of range", index)}
	}

	info := e.cfg.Info
	f := info.Format
	fr := &frame{index: index}
	for p := 0; p < f.NumPlanes; p++ {
		w, h := f.PlaneDimensions(p, info.Width, info.Height)
		row := w * f.BytesPerSample
		stride := row + e.cfg.Padding
		data := make([]byte, stride*h)
		for y := 0; y < h; y++ {
			for x := 0; x < stride; x++ {
				if x < row {
					data[y*stride+x] = Pixel(index, p, x, y)
				} else {
					data[y*stride+x] = PadByte
				}
			}
		}
		fr.strides = append(fr.strides, stride)
		fr.widths = append(fr.widths, w)
		fr.heights = append(fr.heights, h)
		fr.planes = append(fr.planes, data)
	}

	ref := unsafe.Pointer(fr)
	e.track(ref, kindFrame)
	return ref, nil
}

func (e *Engine) frame(f vsgo.FrameRef) *frame {
	return (*frame)(f)
}

// PlaneStride implements vsgo.Engine.
func (e *Engine) PlaneStride(f vsgo.FrameRef, p int) int {
	if e.cfg.StrideOverride != 0 {
		return e.cfg.StrideOverride
	}
	return e.frame(f).strides[p]
}

// PlaneWidth implements vsgo.Engine.
func (e *Engine) PlaneWidth(f vsgo.FrameRef, p int) int { return e.frame(f).widths[p] }

// PlaneHeight implements vsgo.Engine.
func (e *Engine) PlaneHeight(f vsgo.FrameRef, p int) int { return e.frame(f).heights[p] }

// PlaneData implements vsgo.Engine.
func (e *Engine) PlaneData(f vsgo.FrameRef, p int) []byte { return e.frame(f).planes[p] }

// FreeFrame implements vsgo.Engine.
func (e *Engine) FreeFrame(f vsgo.FrameRef) { e.release(f, kindFrame) }

// FreeNode implements vsgo.Engine.
func (e *Engine) FreeNode(n vsgo.NodeRef) { e.release(n, kindNode) }

// FreeScript implements vsgo.Engine.
func (e *Engine) FreeScript(s vsgo.ScriptRef) { e.release(s, kindScript) }

// Live returns the number of unreleased handles of each kind.
func (e *Engine) Live() (scripts, nodes, frames int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range e.live {
		switch k {
		case kindScript:
			scripts++
		case kindNode:
			nodes++
		case kindFrame:
			frames++
		}
	}
	return scripts, nodes, frames
}

// Released returns the number of released handles of each kind.
func (e *Engine) Released() (scripts, nodes, frames int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range e.released {
		switch k {
		case kindScript:
			scripts++
		case kindNode:
			nodes++
		case kindFrame:
			frames++
		}
	}
	return scripts, nodes, frames
}

// DoubleFrees describes every release of a handle that was not live.
func (e *Engine) DoubleFrees() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.doubleFrees...)
}

// GetFrameCalls returns how often GetFrame was called.
func (e *Engine) GetFrameCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getFrames
}

// Evaluated returns the script texts passed to Evaluate.
func (e *Engine) Evaluated() [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]byte(nil), e.evaluated...)
}

// Clip returns a constant-format VideoInfo for tests.
func Clip(f vsgo.PixelFormat, width, height, frames int) vsgo.VideoInfo {
	return vsgo.VideoInfo{
		Format:    &f,
		FPSNum:    30000,
		FPSDen:    1001,
		Width:     width,
		Height:    height,
		NumFrames: frames,
	}
}
