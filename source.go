//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures Open.
type Option func(*options)

type options struct {
	engine         Engine
	executor       Executor
	workers        int
	logger         *zap.Logger
	metrics        *Metrics
	tracerProvider trace.TracerProvider
}

// WithEngine evaluates the script with e instead of the native VapourSynth
// engine.
func WithEngine(e Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithExecutor runs frame fetches on ex. It overrides WithWorkers.
func WithExecutor(ex Executor) Option {
	return func(o *options) {
		o.executor = ex
	}
}

// WithWorkers limits the number of frame fetches running at once.
// Default is runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records fetch metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracerProvider sets the provider for fetch spans.
// Default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// Source serves the frames of one clip.
//
// Frame requests may be issued from any goroutine and run concurrently on the
// executor. Each request reports its outcome exactly once. Requests for the
// same buffer must not overlap.
type Source struct {
	clip    *Clip
	info    ClipInfo
	exec    Executor
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// Open evaluates script as if it were read from path and returns a Source
// for its output node 0. The script text is evaluated verbatim; path is used
// for diagnostics and as the working directory for relative imports.
func Open(script []byte, path string, opts ...Option) (*Source, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.engine == nil {
		e, err := NativeEngine()
		if err != nil {
			return nil, err
		}
		o.engine = e
	}
	if o.executor == nil {
		o.executor = NewWorkerPool(o.workers)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	clip, err := OpenClip(o.engine, script, path)
	if err != nil {
		o.logger.Debug("clip open failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	s := &Source{
		clip:    clip,
		info:    clip.Info(),
		exec:    o.executor,
		logger:  o.logger,
		metrics: o.metrics,
		tracer:  o.tracerProvider.Tracer("github.com/obinnaokechukwu/vsgo"),
	}
	s.logger.Info("clip opened",
		zap.String("path", path),
		zap.Int("width", s.info.Width),
		zap.Int("height", s.info.Height),
		zap.Int("frames", s.info.NumFrames),
		zap.Stringer("fps", s.info.FPS),
		zap.String("format", s.info.Format.Name),
		zap.Int("frame_size", s.info.FrameSize))
	return s, nil
}

// Info returns the clip metadata.
func (s *Source) Info() ClipInfo {
	return s.info
}

// GetFrameAsync fetches frame n into buf on a worker goroutine and then
// calls onComplete with nil or an error matching ErrFrameFetch.
//
// buf must hold at least Info().FrameSize bytes and must not be touched by
// the caller until onComplete runs. onComplete is never called on the
// calling goroutine and does not hold a worker, so it may request further
// frames. buf is not modified when onComplete receives an error.
func (s *Source) GetFrameAsync(n int, buf []byte, onComplete func(error)) {
	if onComplete == nil {
		onComplete = func(error) {}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		go onComplete(frameError(n, ErrClosed))
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	task := &fetchTask{
		id:      uuid.New(),
		clip:    s.clip,
		index:   n,
		buf:     buf,
		logger:  s.logger,
		metrics: s.metrics,
		tracer:  s.tracer,
	}
	task.done = func(err error) {
		s.inflight.Done()
		onComplete(err)
	}
	s.exec.Go(task.run)
}

// Fetch is like GetFrameAsync but delivers the outcome on a channel that
// receives exactly one value.
func (s *Source) Fetch(n int, buf []byte) <-chan error {
	ch := make(chan error, 1)
	s.GetFrameAsync(n, buf, func(err error) {
		ch <- err
	})
	return ch
}

// GetFrame fetches frame n into buf and waits for the result.
func (s *Source) GetFrame(n int, buf []byte) error {
	return <-s.Fetch(n, buf)
}

// Close waits for in-flight fetches and releases the clip. Later requests
// fail with ErrClosed. It is safe to call multiple times.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.inflight.Wait()
	err := s.clip.Close()
	s.logger.Info("clip closed", zap.String("path", s.clip.Path()))
	return err
}
