package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Registry holds the Prometheus metrics for the watcher.
type Registry struct {
	CyclesTotal   prometheus.Counter
	CycleDuration prometheus.Histogram

	PagesFetched prometheus.Counter
	PagesFailed  prometheus.Counter

	ListingsSkipped prometheus.Counter
	RowsInserted    *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates and registers all watcher metrics.
func NewRegistry() *Registry {
	r := &Registry{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sbwatcher_cycles_total",
			Help: "Total number of completed fetch cycles",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sbwatcher_cycle_duration_seconds",
			Help:    "Wall time of one full fetch cycle",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sbwatcher_auction_pages_fetched_total",
			Help: "Auction pages fetched successfully",
		}),
		PagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sbwatcher_auction_pages_failed_total",
			Help: "Auction pages that failed and contributed zero listings",
		}),
		ListingsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sbwatcher_listings_skipped_total",
			Help: "Listings whose name resolved to no catalog entry",
		}),
		RowsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sbwatcher_rows_inserted_total",
			Help: "Price rows appended to the store by table",
		}, []string{"table"}),
	}

	r.registry = prometheus.NewRegistry()
	r.registry.MustRegister(
		r.CyclesTotal,
		r.CycleDuration,
		r.PagesFetched,
		r.PagesFailed,
		r.ListingsSkipped,
		r.RowsInserted,
	)

	return r
}

// Serve exposes the registry on /metrics until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("metrics listener started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics listener failed")
	}
}
