//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"fmt"
	"io"
)

// StreamOption configures NewStream.
type StreamOption func(*streamOptions)

type streamOptions struct {
	y4m        bool
	lookahead  int
	start, end int
}

// WithY4M selects YUV4MPEG2 output (the default) or raw packed frames.
func WithY4M(enabled bool) StreamOption {
	return func(o *streamOptions) {
		o.y4m = enabled
	}
}

// WithLookahead keeps up to n frame fetches in flight ahead of the reader.
// Default is 1.
func WithLookahead(n int) StreamOption {
	return func(o *streamOptions) {
		o.lookahead = n
	}
}

// WithRange streams frames start to end-1. Default is the whole clip.
func WithRange(start, end int) StreamOption {
	return func(o *streamOptions) {
		o.start, o.end = start, end
	}
}

var frameMarker = []byte("FRAME\n")

// Stream reads the frames of a Source sequentially, as YUV4MPEG2 or as raw
// packed frames. It is not safe for concurrent use. Closing the Stream does
// not close the Source.
type Stream struct {
	src       *Source
	info      ClipInfo
	y4m       bool
	lookahead int
	end       int

	next     int // next frame to deliver
	issued   int // next frame to request
	queue    []*streamSlot
	free     [][]byte
	current  []byte
	segments [][]byte

	err    error
	closed bool
}

type streamSlot struct {
	index int
	buf   []byte
	done  <-chan error
}

// NewStream creates a Stream over src. In YUV4MPEG2 mode it fails with
// ErrUnsupportedY4M if the clip format has no colorspace tag.
func NewStream(src *Source, opts ...StreamOption) (*Stream, error) {
	info := src.Info()
	o := streamOptions{y4m: true, lookahead: 1, end: info.NumFrames}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lookahead < 1 {
		o.lookahead = 1
	}
	if o.start < 0 || o.end > info.NumFrames || o.start > o.end {
		return nil, fmt.Errorf("vsgo: invalid frame range [%d, %d) for %d frames", o.start, o.end, info.NumFrames)
	}

	s := &Stream{
		src:       src,
		info:      info,
		y4m:       o.y4m,
		lookahead: o.lookahead,
		end:       o.end,
		next:      o.start,
		issued:    o.start,
	}
	if s.y4m {
		header, err := Y4MHeader(info)
		if err != nil {
			return nil, err
		}
		s.segments = append(s.segments, []byte(header))
	}
	return s, nil
}

// Y4MHeader returns the YUV4MPEG2 stream header for info.
func Y4MHeader(info ClipInfo) (string, error) {
	tag, err := y4mColorspace(info.Format)
	if err != nil {
		return "", err
	}
	fps := info.FPS.Reduce()
	return fmt.Sprintf("YUV4MPEG2 C%s W%d H%d F%d:%d Ip A0:0\n",
		tag, info.Width, info.Height, fps.Num, fps.Den), nil
}

func y4mColorspace(f PixelFormat) (string, error) {
	if f.SampleType != SampleTypeInteger {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedY4M, f.Name)
	}
	switch f.ColorFamily {
	case ColorFamilyGray:
		switch f.BitsPerSample {
		case 8:
			return "mono", nil
		case 16:
			return "mono16", nil
		}
	case ColorFamilyYUV:
		if f.NumPlanes != 3 || f.BitsPerSample < 8 || f.BitsPerSample > 16 {
			break
		}
		var base string
		switch [2]int{f.SubSamplingW, f.SubSamplingH} {
		case [2]int{1, 1}:
			base = "420"
		case [2]int{1, 0}:
			base = "422"
		case [2]int{0, 0}:
			base = "444"
		case [2]int{2, 0}:
			base = "411"
		case [2]int{2, 2}:
			base = "410"
		case [2]int{0, 1}:
			base = "440"
		default:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedY4M, f.Name)
		}
		if f.BitsPerSample == 8 {
			return base, nil
		}
		return fmt.Sprintf("%sp%d", base, f.BitsPerSample), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedY4M, f.Name)
}

// Read implements io.Reader. It blocks only when no frame bytes are
// buffered. A fetch error is returned once buffered bytes are drained and
// ends the stream.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	n := 0
	for n < len(p) {
		if len(s.segments) == 0 {
			if n > 0 {
				break
			}
			if err := s.advance(); err != nil {
				return 0, err
			}
			continue
		}
		c := copy(p[n:], s.segments[0])
		n += c
		s.segments[0] = s.segments[0][c:]
		if len(s.segments[0]) == 0 {
			s.segments = s.segments[1:]
		}
	}
	return n, nil
}

// advance waits for the next frame and queues its bytes.
func (s *Stream) advance() error {
	if s.err != nil {
		return s.err
	}
	if s.current != nil {
		s.free = append(s.free, s.current)
		s.current = nil
	}
	if s.next >= s.end {
		return io.EOF
	}

	s.dispatch()
	slot := s.queue[0]
	s.queue = s.queue[1:]
	if err := <-slot.done; err != nil {
		s.free = append(s.free, slot.buf)
		s.err = err
		return err
	}

	s.current = slot.buf
	s.next++
	if s.y4m {
		s.segments = append(s.segments, frameMarker)
	}
	s.segments = append(s.segments, slot.buf[:s.info.PackedSize])
	return nil
}

// dispatch requests frames until lookahead fetches are queued.
func (s *Stream) dispatch() {
	for s.issued < s.end && len(s.queue) < s.lookahead {
		var buf []byte
		if k := len(s.free); k > 0 {
			buf, s.free = s.free[k-1], s.free[:k-1]
		} else {
			buf = make([]byte, s.info.FrameSize)
		}
		s.queue = append(s.queue, &streamSlot{
			index: s.issued,
			buf:   buf,
			done:  s.src.Fetch(s.issued, buf),
		})
		s.issued++
	}
}

// Close waits for queued fetches and ends the stream. It is safe to call
// multiple times.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, slot := range s.queue {
		<-slot.done
	}
	s.queue = nil
	s.segments = nil
	return nil
}
