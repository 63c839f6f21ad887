// Package metrics exposes Prometheus counters for entity resolution and
// engine turns.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dungeon"

var (
	ResolveOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "outcomes_total",
			Help:      "Resolved nouns by outcome (none, unique, ambiguous, bulk).",
		},
		[]string{"outcome"},
	)

	ResolveDistinctNames = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "distinct_names",
			Help:      "Distinct names among the candidates of a resolution.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	EngineSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "steps_total",
			Help:      "Player commands processed, by verb.",
		},
		[]string{"verb"},
	)
)

// Serve exposes the default registry on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
