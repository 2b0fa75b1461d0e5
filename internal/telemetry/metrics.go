// Package telemetry exposes growth progress as prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chosenoffset.com/glowtree/internal/core/growth"
)

// Metrics records growth events. It satisfies simulation.Observer and is
// safe to read from the HTTP server while the frame loop writes to it.
type Metrics struct {
	registry *prometheus.Registry

	iterations prometheus.Counter
	regrows    prometheus.Counter
	planted    bool // first planting seen; later resets are regrows
	segments   prometheus.Gauge
	tips       prometheus.Gauge
	depth      prometheus.Gauge
	radius     prometheus.Gauge
	stepTime   prometheus.Histogram
}

// NewMetrics registers the growth collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "glowtree_growth_iterations_total",
			Help: "Generations grown since start.",
		}),
		regrows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "glowtree_regrow_total",
			Help: "Number of times the tree was replanted after the first planting.",
		}),
		segments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "glowtree_segments",
			Help: "Branch segments in the current tree.",
		}),
		tips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "glowtree_tips",
			Help: "Growth tips still able to sprout.",
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "glowtree_depth",
			Help: "Deepest tip generation in the current tree.",
		}),
		radius: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "glowtree_bounding_radius",
			Help: "Bounding sphere radius of the current tree.",
		}),
		stepTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "glowtree_growth_step_seconds",
			Help:    "Time to grow one generation and rebuild its buffer.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	m.registry.MustRegister(m.iterations, m.regrows, m.segments, m.tips, m.depth, m.radius, m.stepTime)
	return m
}

// ObserveIteration records one grown generation.
func (m *Metrics) ObserveIteration(stats growth.IterationStats, boundingRadius float32, elapsed time.Duration) {
	m.iterations.Inc()
	m.segments.Set(float64(stats.Segments))
	m.tips.Set(float64(stats.Tips))
	m.depth.Set(float64(stats.MaxDepth))
	m.radius.Set(float64(boundingRadius))
	m.stepTime.Observe(elapsed.Seconds())
}

// ObserveReset records a planted tree. Only replants count as regrows.
func (m *Metrics) ObserveReset(_ int64, planted growth.IterationStats, boundingRadius float32) {
	if m.planted {
		m.regrows.Inc()
	}
	m.planted = true
	m.segments.Set(float64(planted.Segments))
	m.tips.Set(float64(planted.Tips))
	m.depth.Set(float64(planted.MaxDepth))
	m.radius.Set(float64(boundingRadius))
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
	return r
}

// Serve runs the metrics endpoint on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}
