package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	length, capacity int
	busy, full       bool
}

func (f fakeQueue) Length() int   { return f.length }
func (f fakeQueue) Capacity() int { return f.capacity }
func (f fakeQueue) IsBusy() bool  { return f.busy }
func (f fakeQueue) IsFull() bool  { return f.full }

func newTestServer(alive bool, q fakeQueue) *server {
	return New("127.0.0.1:0", q, func() bool { return alive }, prometheus.NewRegistry()).(*server)
}

func TestHealthzReportsOKWhenAlive(t *testing.T) {
	s := newTestServer(true, fakeQueue{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	s.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthzReportsUnavailableWhenNotAlive(t *testing.T) {
	s := newTestServer(false, fakeQueue{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	s.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQueueEndpointReportsSnapshot(t *testing.T) {
	s := newTestServer(true, fakeQueue{length: 3, capacity: 30, busy: true, full: false})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/queue", nil)

	s.router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var snap queueSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 3, snap.Length)
	assert.Equal(t, 30, snap.Capacity)
	assert.True(t, snap.IsBusy)
	assert.False(t, snap.IsFull)
}

func TestMetricsEndpointServesPrometheusExposition(t *testing.T) {
	s := newTestServer(true, fakeQueue{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	s.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShutdownBeforeStartIsANoop(t *testing.T) {
	s := newTestServer(true, fakeQueue{})
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestAddrReportsAssignedPortAfterStart(t *testing.T) {
	s := newTestServer(true, fakeQueue{})
	assert.Empty(t, s.Addr())

	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	assert.NotEmpty(t, s.Addr())
}
