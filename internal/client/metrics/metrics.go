// Package metrics exposes Prometheus instrumentation for the cart
// synchronizer and an optional /metrics endpoint.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultStale = "stale"
)

// Sync counts cart loads and mutations. A nil *Sync is valid and records
// nothing.
type Sync struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	mutations    *prometheus.CounterVec
	inFlight     prometheus.Gauge
}

// NewSync creates the collectors and registers them with reg.
func NewSync(reg prometheus.Registerer) *Sync {
	s := &Sync{
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartsync_cart_loads_total",
				Help: "Cart loads by result (ok, error, stale).",
			},
			[]string{"result"},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cartsync_cart_load_duration_seconds",
				Help:    "Duration of cart fetches.",
				Buckets: prometheus.DefBuckets,
			},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartsync_cart_mutations_total",
				Help: "Cart mutations by operation and result.",
			},
			[]string{"op", "result"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cartsync_operations_in_flight",
				Help: "Cart operations currently running.",
			},
		),
	}
	reg.MustRegister(s.loads, s.loadDuration, s.mutations, s.inFlight)
	return s
}

func (s *Sync) ObserveLoad(result string, d time.Duration) {
	if s == nil {
		return
	}
	s.loads.WithLabelValues(result).Inc()
	s.loadDuration.Observe(d.Seconds())
}

func (s *Sync) ObserveMutation(op, result string) {
	if s == nil {
		return
	}
	s.mutations.WithLabelValues(op, result).Inc()
}

func (s *Sync) Begin() {
	if s == nil {
		return
	}
	s.inFlight.Inc()
}

func (s *Sync) End() {
	if s == nil {
		return
	}
	s.inFlight.Dec()
}

// Handler serves the registry at /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}).ServeHTTP)
	return r
}

// Serve runs the metrics endpoint on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
