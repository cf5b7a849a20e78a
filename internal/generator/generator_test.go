package generator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kd9qzo/cwtonequeue/internal/tonequeue"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu      sync.Mutex
	tones   []tonequeue.Tone
	flushes int
}

func (r *recordingSink) Render(_ context.Context, tone tonequeue.Tone) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tones = append(r.tones, tone)
}

func (r *recordingSink) Flush(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
}

func (r *recordingSink) snapshot() ([]tonequeue.Tone, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tonequeue.Tone(nil), r.tones...), r.flushes
}

func newQueue(t *testing.T) *tonequeue.Queue {
	t.Helper()
	q, err := tonequeue.New(30, 25)
	require.NoError(t, err)
	return q
}

func TestGeneratorRendersEnqueuedTonesInOrder(t *testing.T) {
	q := newQueue(t)
	sink := &recordingSink{}
	g := New(q, sink)

	g.Start(context.Background())
	defer g.Stop()

	require.NoError(t, q.Enqueue(tonequeue.Tone{DurationUsec: 1000, FrequencyHz: 600, IsFirst: true}))
	require.NoError(t, q.Enqueue(tonequeue.Tone{DurationUsec: 1000, FrequencyHz: 0}))

	require.Eventually(t, func() bool {
		tones, flushes := sink.snapshot()
		return len(tones) == 2 && flushes == 1
	}, time.Second, 5*time.Millisecond)

	tones, _ := sink.snapshot()
	assert.Equal(t, 600, tones[0].FrequencyHz)
	assert.Equal(t, 0, tones[1].FrequencyHz)
}

func TestAliveReflectsStartStopLifecycle(t *testing.T) {
	q := newQueue(t)
	g := New(q, NullSink{})

	assert.False(t, g.Alive())

	g.Start(context.Background())
	assert.True(t, g.Alive())

	g.Stop()
	assert.False(t, g.Alive())
}

func TestGeneratorStopUnblocksCleanly(t *testing.T) {
	q := newQueue(t)
	g := New(q, NullSink{})

	g.Start(context.Background())
	g.Stop()

	assert.NotPanics(t, g.Stop)
}

func TestSetRefillFuncFiresOnLowWaterCrossing(t *testing.T) {
	q := newQueue(t)
	g := New(q, NullSink{})

	var calls int32
	require.NoError(t, g.SetRefillFunc(func(*tonequeue.Queue) {
		atomic.AddInt32(&calls, 1)
	}, 1))

	g.Start(context.Background())
	defer g.Stop()

	require.NoError(t, q.Enqueue(tonequeue.Tone{DurationUsec: 1000, FrequencyHz: 600, IsFirst: true}))
	require.NoError(t, q.Enqueue(tonequeue.Tone{DurationUsec: 1000, FrequencyHz: 500}))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) > 0
	}, time.Second, 5*time.Millisecond)
}

func TestGeneratorHandlesForeverToneWithoutSleeping(t *testing.T) {
	q := newQueue(t)
	sink := &recordingSink{}
	g := New(q, sink)

	g.Start(context.Background())
	defer g.Stop()

	require.NoError(t, q.Enqueue(tonequeue.Tone{DurationUsec: 1000, FrequencyHz: 700, IsForever: true, IsFirst: true}))

	require.Eventually(t, func() bool {
		tones, _ := sink.snapshot()
		return len(tones) > 2
	}, time.Second, 5*time.Millisecond)
}
