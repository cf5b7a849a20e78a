// Package cwtone is the public API veneer for this module: a thin
// orchestration layer that wires a tonequeue.Queue, a generator.Generator,
// a keysink.KeySink, and optional metrics/HTTP introspection into one
// runnable unit, composing its subsystems rather than reimplementing them.
package cwtone

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kd9qzo/cwtonequeue/internal/conf"
	"github.com/kd9qzo/cwtonequeue/internal/generator"
	"github.com/kd9qzo/cwtonequeue/internal/httpserver"
	"github.com/kd9qzo/cwtonequeue/internal/keysink"
	"github.com/kd9qzo/cwtonequeue/internal/logging"
	"github.com/kd9qzo/cwtonequeue/internal/metrics"
	"github.com/kd9qzo/cwtonequeue/internal/tonequeue"
)

// System bundles a queue together with its consumer and collaborators.
// It is the composition root a CLI command or an embedding application
// reaches for instead of wiring tonequeue, generator, keysink, metrics,
// and httpserver by hand.
type System struct {
	Queue     *tonequeue.Queue
	Generator *generator.Generator
	KeySink   tonequeue.KeySink
	Metrics   *metrics.ToneQueueMetrics
	HTTP      httpserver.Server

	keySinkCleanup func()
	logCloser      func() error
	httpCancel     context.CancelFunc
}

// Option customizes System construction.
type Option func(*buildConfig)

type buildConfig struct {
	sink     generator.ToneSink
	registry *prometheus.Registry
	refill   generator.RefillFunc
}

// WithToneSink overrides the generator's render target. Defaults to
// generator.NullSink.
func WithToneSink(sink generator.ToneSink) Option {
	return func(c *buildConfig) { c.sink = sink }
}

// WithRefillFunc registers fn as the queue's low-water callback, at the
// level configured in settings.ToneQueue.LowWaterMark, so the generator
// can demonstrate a producer topping the queue back up instead of a
// one-shot fill.
func WithRefillFunc(fn generator.RefillFunc) Option {
	return func(c *buildConfig) { c.refill = fn }
}

// WithRegistry supplies the Prometheus registry metrics are registered
// on. Defaults to a fresh prometheus.NewRegistry().
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *buildConfig) { c.registry = reg }
}

// New builds a System from settings: a queue sized per
// settings.ToneQueue, a metrics recorder registered on the configured
// (or a fresh) registry when settings.Metrics.Enabled, a key sink selected per settings.KeySink, and a
// generator wired to all three. It does not start the generator or any
// HTTP server; call Start for that.
func New(ctx context.Context, settings *conf.Settings, opts ...Option) (*System, error) {
	cfg := buildConfig{sink: generator.NullSink{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}

	var rec *metrics.ToneQueueMetrics
	if settings.Metrics.Enabled {
		var err error
		rec, err = metrics.NewToneQueueMetrics(cfg.registry)
		if err != nil {
			return nil, fmt.Errorf("cwtone: registering metrics: %w", err)
		}
	}

	sink, cleanup, err := keysink.New(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("cwtone: building key sink: %w", err)
	}

	queueOpts := []tonequeue.Option{
		tonequeue.WithKeySink(sink),
		tonequeue.WithName("default"),
	}
	// Only pass a non-nil recorder: a nil *ToneQueueMetrics wrapped in the
	// Recorder interface would not compare equal to nil.
	if rec != nil {
		queueOpts = append(queueOpts, tonequeue.WithRecorder(rec))
	}
	queue, err := tonequeue.New(
		settings.ToneQueue.Capacity,
		settings.ToneQueue.HighWaterMark,
		queueOpts...,
	)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("cwtone: building queue: %w", err)
	}

	gen := generator.New(queue, cfg.sink)
	if cfg.refill != nil {
		if err := gen.SetRefillFunc(cfg.refill, settings.ToneQueue.LowWaterMark); err != nil {
			cleanup()
			return nil, fmt.Errorf("cwtone: registering refill func: %w", err)
		}
	}

	var logCloser func() error
	if settings.Main.Log.Enabled && settings.Main.Log.Path != "" {
		levelVar := new(slog.LevelVar)
		if settings.Debug {
			levelVar.Set(slog.LevelDebug)
		}
		fileLog, closeFile, err := logging.NewFileLogger(settings.Main.Log.Path, "generator", levelVar)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("cwtone: building generator log file: %w", err)
		}
		gen.SetLogger(fileLog)
		logCloser = closeFile
	}

	var httpSrv httpserver.Server
	if settings.HTTPServer.Enabled {
		httpSrv = httpserver.New(settings.HTTPServer.Listen, queue, gen.Alive, cfg.registry)
	}

	return &System{
		Queue:          queue,
		Generator:      gen,
		KeySink:        sink,
		Metrics:        rec,
		HTTP:           httpSrv,
		keySinkCleanup: cleanup,
		logCloser:      logCloser,
	}, nil
}

// Start launches the generator's consumer goroutine and, if configured,
// the HTTP introspection server.
func (s *System) Start(ctx context.Context) error {
	s.Generator.Start(ctx)
	if s.HTTP != nil {
		httpCtx, cancel := context.WithCancel(ctx)
		s.httpCancel = cancel
		if err := s.HTTP.Start(httpCtx); err != nil {
			return fmt.Errorf("cwtone: starting http server: %w", err)
		}
	}
	return nil
}

// Stop tears the system down in reverse dependency order: HTTP server,
// generator, queue close, key sink cleanup.
func (s *System) Stop(ctx context.Context) error {
	var firstErr error
	if s.HTTP != nil {
		if err := s.HTTP.Shutdown(ctx); err != nil {
			firstErr = err
		}
		if s.httpCancel != nil {
			s.httpCancel()
		}
	}
	s.Generator.Stop()
	if err := s.Queue.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if s.keySinkCleanup != nil {
		s.keySinkCleanup()
	}
	if s.logCloser != nil {
		if err := s.logCloser(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
