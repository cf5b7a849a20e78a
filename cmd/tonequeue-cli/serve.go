package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kd9qzo/cwtonequeue/cwtone"
	"github.com/kd9qzo/cwtonequeue/internal/conf"
	"github.com/kd9qzo/cwtonequeue/internal/generator"
	"github.com/kd9qzo/cwtonequeue/internal/logging"
	"github.com/kd9qzo/cwtonequeue/internal/tonequeue"
)

// demoPattern is a short repeating dit/dah/gap sequence enqueued by the
// refill callback below, standing in for a real producer (an iambic
// keyer or a text-to-Morse encoder) that would otherwise top the queue
// back up.
var demoPattern = []tonequeue.Tone{
	{DurationUsec: 60000, FrequencyHz: 700},
	{DurationUsec: 60000, FrequencyHz: 0},
	{DurationUsec: 180000, FrequencyHz: 700},
	{DurationUsec: 60000, FrequencyHz: 0},
}

// refillWithDemoPattern enqueues demoPattern whenever the queue's depth
// drops to its low-water mark, so "serve" keeps streaming tones instead
// of draining once and falling idle.
func refillWithDemoPattern(q *tonequeue.Queue) {
	for i, tone := range demoPattern {
		tone.IsFirst = i == 0
		if err := q.Enqueue(tone); err != nil {
			return
		}
	}
}

func serveCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tone queue with its generator, HTTP introspection, and key sink until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), settings)
		},
	}
}

func runServe(ctx context.Context, settings *conf.Settings) error {
	logging.Init()

	sys, err := cwtone.New(ctx, settings,
		cwtone.WithToneSink(generator.NewLogSink()),
		cwtone.WithRefillFunc(refillWithDemoPattern),
	)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	if err := sys.Start(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	refillWithDemoPattern(sys.Queue)

	fmt.Printf("tonequeue-cli serve: queue capacity=%d high-water=%d\n",
		settings.ToneQueue.Capacity, settings.ToneQueue.HighWaterMark)
	if settings.HTTPServer.Enabled {
		fmt.Printf("http introspection listening on %s\n", settings.HTTPServer.Listen)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return sys.Stop(shutdownCtx)
}
