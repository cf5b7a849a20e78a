// Package generator provides a demo consumer for a tonequeue.Queue: a
// goroutine that dequeues tones, paces itself in real time, and renders
// each one through a pluggable ToneSink. It owns the wall clock so the
// queue itself never has to — timing when a tone begins or ends is a
// consumer concern, not a queue invariant.
package generator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/kd9qzo/cwtonequeue/internal/logging"
	"github.com/kd9qzo/cwtonequeue/internal/tonequeue"
)

// ToneSink renders a dequeued tone. No PCM synthesis is implied or
// required; a sink may be as simple as a log line.
type ToneSink interface {
	Render(ctx context.Context, tone tonequeue.Tone)
	// Flush is called once after the queue empties, so a sink with
	// tail state (e.g. a ramp-down) can settle it.
	Flush(ctx context.Context)
}

// NullSink discards every tone.
type NullSink struct{}

// Render implements ToneSink.
func (NullSink) Render(context.Context, tonequeue.Tone) {}

// Flush implements ToneSink.
func (NullSink) Flush(context.Context) {}

// LogSink logs each tone's duration and frequency at Debug level.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink returns a LogSink, falling back to the process default
// logger if logging has not been initialized.
func NewLogSink() *LogSink {
	log := logging.ForService("generator")
	if log == nil {
		log = slog.Default().With("service", "generator")
	}
	return &LogSink{log: log}
}

// Render implements ToneSink.
func (s *LogSink) Render(_ context.Context, tone tonequeue.Tone) {
	s.log.Debug("rendering tone",
		"duration_usec", tone.DurationUsec,
		"frequency_hz", tone.FrequencyHz,
		"forever", tone.IsForever,
	)
}

// Flush implements ToneSink.
func (s *LogSink) Flush(context.Context) {
	s.log.Debug("sink flush: queue emptied")
}

// RefillFunc is invoked with the queue when its depth crosses at or below
// its low-water mark, so a producer can top it back up before it runs
// dry. It runs on whatever goroutine dequeued the crossing tone, outside
// the queue's lock, and must not block for long.
type RefillFunc func(q *tonequeue.Queue)

// Generator drives the consumer side of a Queue: a single goroutine
// looping Dequeue, pacing renders to the tone's nominal duration, and
// waiting for work when idle.
type Generator struct {
	queue   *tonequeue.Queue
	sink    ToneSink
	limiter *rate.Limiter
	log     *slog.Logger
	refill  RefillFunc

	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	running atomic.Bool
}

// New builds a Generator bound to queue. The rate limiter is a busy-spin
// backstop, not the primary pacing mechanism — actual pacing comes from
// sleeping out each tone's DurationUsec in the render loop.
func New(queue *tonequeue.Queue, sink ToneSink) *Generator {
	if sink == nil {
		sink = NullSink{}
	}
	log := logging.ForService("generator")
	if log == nil {
		log = slog.Default().With("service", "generator")
	}
	return &Generator{
		queue:   queue,
		sink:    sink,
		limiter: rate.NewLimiter(rate.Limit(1000), 1),
		log:     log,
	}
}

// SetLogger overrides the generator's lifecycle logger, e.g. with a
// logging.NewFileLogger-backed *slog.Logger so a long-running consumer
// gets its own rotated log file instead of sharing the process-wide
// structured logger. Must be called before Start.
func (g *Generator) SetLogger(log *slog.Logger) {
	g.log = log
}

// SetRefillFunc registers fn as the queue's low-water callback at level,
// so the generator can demonstrate steady-state streaming (a producer
// topping the queue back up) instead of a one-shot fill. Passing a nil fn
// clears the registration. Must be called before Start.
func (g *Generator) SetRefillFunc(fn RefillFunc, level int) error {
	g.refill = fn
	if fn == nil {
		return g.queue.RegisterLowWaterCallback(nil, nil, level)
	}
	return g.queue.RegisterLowWaterCallback(func(any) {
		g.refill(g.queue)
	}, nil, level)
}

// Start attaches the generator as the queue's consumer and launches its
// render loop in a background goroutine. Start is not safe to call twice
// on the same Generator.
func (g *Generator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})
	g.running.Store(true)

	g.queue.AttachConsumer()
	g.log.Info("generator started")
	go g.run(ctx)
}

// Stop detaches the consumer, unblocking any producer waits gated on the
// cancellation gate, and waits for the render loop goroutine to exit.
func (g *Generator) Stop() {
	g.once.Do(func() {
		if g.cancel != nil {
			g.cancel()
		}
		g.queue.DetachConsumer()
		if g.done != nil {
			<-g.done
		}
		g.running.Store(false)
		g.log.Info("generator stopped")
	})
}

// Alive reports whether the render loop goroutine is currently running,
// i.e. Start has been called and Stop has not yet completed. Used by the
// HTTP introspection server's /healthz handler.
func (g *Generator) Alive() bool {
	return g.running.Load()
}

func (g *Generator) run(ctx context.Context) {
	defer close(g.done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tone, result := g.queue.Dequeue()
		switch result {
		case tonequeue.Dequeued:
			if err := g.limiter.Wait(ctx); err != nil {
				return
			}
			g.sink.Render(ctx, tone)
			g.pace(ctx, tone)
		case tonequeue.Emptied:
			g.sink.Flush(ctx)
		case tonequeue.Idle:
			if err := g.queue.WaitForWork(); err != nil {
				return
			}
		}
	}
}

// pace sleeps out the tone's nominal duration so the render loop behaves
// like a real-time audio callback instead of draining the queue as fast
// as the CPU allows. A forever tone has no meaningful duration to sleep
// out; it is repolled at the limiter's backstop rate instead.
func (g *Generator) pace(ctx context.Context, tone tonequeue.Tone) {
	if tone.IsForever || tone.DurationUsec <= 0 {
		return
	}
	timer := time.NewTimer(time.Duration(tone.DurationUsec) * time.Microsecond)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
