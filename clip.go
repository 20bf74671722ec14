//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ClipState is the lifecycle state of a Clip.
type ClipState int32

const (
	ClipUninitialized ClipState = iota
	ClipEvaluated
	ClipNodeAcquired
	ClipReady
	ClipFailed
	ClipClosed
)

// String returns the state name.
func (s ClipState) String() string {
	switch s {
	case ClipUninitialized:
		return "uninitialized"
	case ClipEvaluated:
		return "evaluated"
	case ClipNodeAcquired:
		return "node acquired"
	case ClipReady:
		return "ready"
	case ClipFailed:
		return "failed"
	case ClipClosed:
		return "closed"
	default:
		return fmt.Sprintf("ClipState(%d)", int32(s))
	}
}

// ClipInfo is the immutable metadata of a ready clip.
type ClipInfo struct {
	Width      int         `yaml:"width"`
	Height     int         `yaml:"height"`
	NumFrames  int         `yaml:"num_frames"`
	FPS        Rational    `yaml:"fps"`
	FrameSize  int         `yaml:"frame_size"`  // FrameSize(format, width, height)
	PackedSize int         `yaml:"packed_size"` // bytes a fetch actually writes
	Format     PixelFormat `yaml:"format"`
}

// Clip owns one evaluated script and its output node.
//
// A Clip is either returned Ready by OpenClip or not returned at all. Its
// metadata never changes; frame fetches may run concurrently. Close releases
// the node, then the script, exactly once, and must not overlap a fetch.
type Clip struct {
	engine Engine
	path   string

	mu     sync.Mutex // guards script and node during teardown
	script ScriptRef
	node   NodeRef
	state  atomic.Int32

	info   ClipInfo
	format PixelFormat
}

// OpenClip evaluates script against path and validates its output node 0.
// It fails with an *Error matching ErrScriptEvaluation, ErrNoOutput or
// ErrUnsupportedClip; in every failure case the handles acquired so far
// have been released.
func OpenClip(e Engine, script []byte, path string) (*Clip, error) {
	c := &Clip{engine: e, path: path}
	if err := c.open(script); err != nil {
		c.teardown()
		c.state.Store(int32(ClipFailed))
		return nil, err
	}
	return c, nil
}

func (c *Clip) open(script []byte) error {
	s, err := c.engine.Evaluate(script, c.path)
	if err != nil {
		return evaluationError(c.path, err)
	}
	if s == nil {
		return evaluationError(c.path, nil)
	}
	c.script = s
	c.state.Store(int32(ClipEvaluated))

	node := c.engine.OutputNode(c.script, 0)
	if node == nil {
		return noOutputError(c.path)
	}
	c.node = node
	c.state.Store(int32(ClipNodeAcquired))

	vi := c.engine.VideoInfo(c.node)
	if !vi.ConstantFormat() || vi.NumFrames <= 0 {
		return unsupportedClipError(c.path)
	}
	frameSize := FrameSize(vi.Format, vi.Width, vi.Height)
	if frameSize <= 0 {
		return unsupportedClipError(c.path)
	}

	c.format = *vi.Format
	c.info = ClipInfo{
		Width:      vi.Width,
		Height:     vi.Height,
		NumFrames:  vi.NumFrames,
		FPS:        NewRational(vi.FPSNum, vi.FPSDen),
		FrameSize:  frameSize,
		PackedSize: PackedSize(vi.Format, vi.Width, vi.Height),
		Format:     c.format,
	}
	c.state.Store(int32(ClipReady))
	return nil
}

// teardown releases the node, then the script. Released handles are nilled,
// so repeated calls are no-ops.
func (c *Clip) teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.node != nil {
		c.engine.FreeNode(c.node)
		c.node = nil
	}
	if c.script != nil {
		c.engine.FreeScript(c.script)
		c.script = nil
	}
}

// Close releases the clip's engine handles. It is safe to call multiple times.
func (c *Clip) Close() error {
	if ClipState(c.state.Swap(int32(ClipClosed))) == ClipClosed {
		return nil
	}
	c.teardown()
	return nil
}

// State returns the current lifecycle state.
func (c *Clip) State() ClipState {
	return ClipState(c.state.Load())
}

// Info returns the clip metadata.
func (c *Clip) Info() ClipInfo {
	return c.info
}

// Path returns the script path the clip was evaluated against.
func (c *Clip) Path() string {
	return c.path
}

// fetchFrame produces frame n. The caller owns the returned frame and must
// release it.
func (c *Clip) fetchFrame(n int) (*clipFrame, error) {
	if c.State() != ClipReady {
		return nil, frameError(n, ErrClosed)
	}
	if n < 0 || n >= c.info.NumFrames {
		return nil, frameError(n, fmt.Errorf("frame index out of range [0, %d)", c.info.NumFrames))
	}

	f, err := c.engine.GetFrame(c.node, n)
	if err != nil {
		return nil, frameError(n, err)
	}
	if f == nil {
		return nil, frameError(n, errors.New("engine returned no frame"))
	}
	return &clipFrame{engine: c.engine, ref: f}, nil
}

// clipFrame is an engine frame borrowed for the duration of one copy.
type clipFrame struct {
	engine Engine
	ref    FrameRef
}

// plane describes one plane of an engine frame.
type plane struct {
	stride int
	width  int
	height int
	data   []byte
}

func (f *clipFrame) plane(p int) plane {
	return plane{
		stride: f.engine.PlaneStride(f.ref, p),
		width:  f.engine.PlaneWidth(f.ref, p),
		height: f.engine.PlaneHeight(f.ref, p),
		data:   f.engine.PlaneData(f.ref, p),
	}
}

// release frees the engine frame once.
func (f *clipFrame) release() {
	if f.ref == nil {
		return
	}
	f.engine.FreeFrame(f.ref)
	f.ref = nil
}
