package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kd9qzo/cwtonequeue/internal/logging"
)

// QueueInspector is the read-only view of a tone queue the /queue
// endpoint reports. *tonequeue.Queue satisfies this without
// internal/httpserver importing internal/tonequeue for anything beyond
// this interface.
type QueueInspector interface {
	Length() int
	Capacity() int
	IsBusy() bool
	IsFull() bool
}

// AliveFunc reports whether the consumer side of the system is still
// running; it backs /healthz.
type AliveFunc func() bool

type server struct {
	addr     string
	queue    QueueInspector
	alive    AliveFunc
	registry *prometheus.Registry
	logger   *slog.Logger

	httpServer *http.Server
	listener   net.Listener
}

// New builds the introspection HTTP server. registry may be nil, in
// which case /metrics reports an empty exposition.
func New(addr string, queue QueueInspector, alive AliveFunc, registry *prometheus.Registry) Server {
	logger := logging.ForService("httpserver")
	if logger == nil {
		logger = slog.Default().With("service", "httpserver")
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &server{
		addr:     addr,
		queue:    queue,
		alive:    alive,
		registry: registry,
		logger:   logger,
	}
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/queue", s.handleQueue).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// Start implements Server.
func (s *server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("http introspection server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped unexpectedly", "error", err)
		}
	}()
	return nil
}

// Shutdown implements Server.
func (s *server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Addr implements Server.
func (s *server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.alive != nil && !s.alive() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type queueSnapshot struct {
	Length   int  `json:"length"`
	Capacity int  `json:"capacity"`
	IsBusy   bool `json:"is_busy"`
	IsFull   bool `json:"is_full"`
}

func (s *server) handleQueue(w http.ResponseWriter, r *http.Request) {
	snap := queueSnapshot{
		Length:   s.queue.Length(),
		Capacity: s.queue.Capacity(),
		IsBusy:   s.queue.IsBusy(),
		IsFull:   s.queue.IsFull(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Error("failed to encode queue snapshot", "error", err)
	}
}
