//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// fetchTask fetches one frame into a caller-owned buffer and reports the
// outcome exactly once through done. done runs on its own goroutine after the
// worker has finished, so it may issue further fetches on the same executor.
type fetchTask struct {
	id    uuid.UUID
	clip  *Clip
	index int
	buf   []byte
	done  func(error)

	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// run executes the task on the calling worker.
func (t *fetchTask) run() {
	_, span := t.tracer.Start(context.Background(), "vsgo.fetchFrame",
		trace.WithAttributes(
			attribute.Int("frame.index", t.index),
			attribute.String("fetch.id", t.id.String()),
		))

	t.metrics.fetchStarted()
	start := time.Now()
	written, err := t.execute()
	elapsed := time.Since(start)
	t.metrics.fetchFinished(elapsed, written, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Debug("frame fetch failed",
			zap.Stringer("id", t.id),
			zap.Int("frame", t.index),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	} else {
		span.SetAttributes(attribute.Int("frame.bytes", written))
		t.logger.Debug("frame fetched",
			zap.Stringer("id", t.id),
			zap.Int("frame", t.index),
			zap.Int("bytes", written),
			zap.Duration("elapsed", elapsed))
	}
	span.End()

	go t.done(err)
}

// execute fetches the frame and copies its planes into t.buf.
// The buffer is untouched unless the whole copy can proceed.
func (t *fetchTask) execute() (int, error) {
	info := t.clip.Info()
	if info.FrameSize == 0 {
		return 0, frameError(t.index, fmt.Errorf("%w: clip has zero frame size", ErrBufferTooSmall))
	}
	if len(t.buf) < info.FrameSize {
		return 0, frameError(t.index, fmt.Errorf("%w: %d bytes, need %d", ErrBufferTooSmall, len(t.buf), info.FrameSize))
	}

	frame, err := t.clip.fetchFrame(t.index)
	if err != nil {
		return 0, err
	}
	defer frame.release()

	written, err := copyPlanes(frame, t.clip.format, t.buf)
	if err != nil {
		return 0, frameError(t.index, err)
	}
	return written, nil
}

// copyPlanes copies each plane of f into dst row by row. Rows are
// width*bytesPerSample long; the source advances by the plane stride and the
// destination by the row size, so dst is tightly packed.
func copyPlanes(f *clipFrame, format PixelFormat, dst []byte) (int, error) {
	planes := make([]plane, format.NumPlanes)
	need := 0
	for p := range planes {
		pl := f.plane(p)
		rowSize := pl.width * format.BytesPerSample
		if pl.width < 0 || pl.height < 0 {
			return 0, fmt.Errorf("plane %d has negative dimensions %dx%d", p, pl.width, pl.height)
		}
		if pl.height > 0 && (pl.stride < rowSize || len(pl.data) < pl.stride*(pl.height-1)+rowSize) {
			return 0, fmt.Errorf("plane %d geometry inconsistent: stride %d, row %d bytes, %d rows, %d bytes of data",
				p, pl.stride, rowSize, pl.height, len(pl.data))
		}
		planes[p] = pl
		need += rowSize * pl.height
	}
	if need > len(dst) {
		return 0, fmt.Errorf("%w: frame needs %d bytes, buffer has %d", ErrBufferTooSmall, need, len(dst))
	}

	off := 0
	for _, pl := range planes {
		rowSize := pl.width * format.BytesPerSample
		src := 0
		for y := 0; y < pl.height; y++ {
			copy(dst[off:off+rowSize], pl.data[src:src+rowSize])
			off += rowSize
			src += pl.stride
		}
	}
	return off, nil
}
