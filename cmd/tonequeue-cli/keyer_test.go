package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9qzo/cwtonequeue/internal/tonequeue"
)

func newTestKeyerModel(t *testing.T) keyerModel {
	t.Helper()
	q, err := tonequeue.New(16, 12)
	require.NoError(t, err)
	return newKeyerModel(q)
}

func keyDown(t *testing.T, m keyerModel, key string) (keyerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.keyDown(key)
	return next.(keyerModel), cmd
}

func TestKeyDownEnqueuesAStickyForeverTone(t *testing.T) {
	m := newTestKeyerModel(t)

	m, _ = keyDown(t, m, ".")
	assert.Equal(t, ".", m.holding)
	assert.NoError(t, m.lastErr)
	assert.Equal(t, 1, m.queue.Length())

	tone, result := m.queue.Dequeue()
	assert.Equal(t, tonequeue.Dequeued, result)
	assert.True(t, tone.IsForever)
	assert.Equal(t, keyTone, tone.FrequencyHz)

	// Sticky: re-dequeuing a lone forever tone does not drain the queue.
	_, result = m.queue.Dequeue()
	assert.Equal(t, tonequeue.Dequeued, result)
	assert.Equal(t, 1, m.queue.Length())
}

func TestRepeatedKeyDownForSameKeyDoesNotEnqueueAgain(t *testing.T) {
	m := newTestKeyerModel(t)

	m, _ = keyDown(t, m, ".")
	firstGen := m.holdGen
	m, _ = keyDown(t, m, ".")

	assert.Equal(t, 1, m.queue.Length())
	assert.Greater(t, m.holdGen, firstGen)
}

func TestKeyUpTerminatesForeverToneWithRealDashAndGap(t *testing.T) {
	m := newTestKeyerModel(t)

	m, cmd := keyDown(t, m, "-")
	msg := cmd()

	m = m.keyUp(msg.(holdReleaseMsg))
	assert.Empty(t, m.holding)
	assert.NoError(t, m.lastErr)

	// forever tone (now non-sticky, since len > 1), dash, gap.
	require.Equal(t, 3, m.queue.Length())

	tone, _ := m.queue.Dequeue()
	assert.True(t, tone.IsForever)

	tone, _ = m.queue.Dequeue()
	assert.False(t, tone.IsForever)
	assert.Equal(t, int64(dashUnit/time.Microsecond), tone.DurationUsec)
	assert.Equal(t, keyTone, tone.FrequencyHz)

	tone, _ = m.queue.Dequeue()
	assert.Equal(t, 0, tone.FrequencyHz)
}

func TestStaleHoldReleaseMsgIsIgnoredAfterNewKeyDown(t *testing.T) {
	m := newTestKeyerModel(t)

	m, cmd := keyDown(t, m, ".")
	staleMsg := cmd()

	// A fresh repeat bumps holdGen before the stale timer fires.
	m, _ = keyDown(t, m, ".")

	m = m.keyUp(staleMsg.(holdReleaseMsg))
	assert.Equal(t, ".", m.holding, "a stale release must not clear an active hold")
}
