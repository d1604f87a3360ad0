// Package metrics exposes the daemon's internal counters as Prometheus
// gauges/counters, grounded on the pack's own router/speaker daemons
// (purelb-purelb's internal/allocator/stats.go and internal/k8s/stats.go),
// which expose the same kind of pool/size/outcome metrics for a comparable
// networking daemon.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/malujoro/lsrouter/internal/logger"
)

const namespace = "lsrouter"

var (
	detectedNeighbors = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "detected_neighbors",
		Help:      "Number of neighbors detected via HELLO.",
	})

	confirmedNeighbors = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "confirmed_neighbors",
		Help:      "Number of bidirectionally confirmed neighbors.",
	})

	lsdbEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lsdb_entries",
		Help:      "Number of entries (real and placeholder) in the link-state database.",
	})

	routingTableSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "routing_table_entries",
		Help:      "Number of destinations with a resolved first hop.",
	})

	dijkstraDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dijkstra_duration_seconds",
		Help:      "Time spent computing shortest paths per accepted LSA.",
		Buckets:   prometheus.DefBuckets,
	})

	lsaAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lsa_accepted_total",
		Help:      "Number of LSAs accepted by the sequence-number gate.",
	})

	lsaRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lsa_rejected_total",
		Help:      "Number of LSAs rejected as stale or duplicate.",
	})

	routeInstalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_installs_total",
		Help:      "Route install attempts, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		detectedNeighbors,
		confirmedNeighbors,
		lsdbEntries,
		routingTableSize,
		dijkstraDuration,
		lsaAccepted,
		lsaRejected,
		routeInstalls,
	)
}

// SetNeighborCounts updates the detected/confirmed neighbor gauges.
func SetNeighborCounts(detected, confirmed int) {
	detectedNeighbors.Set(float64(detected))
	confirmedNeighbors.Set(float64(confirmed))
}

// SetLSDBSize updates the LSDB and routing-table size gauges.
func SetLSDBSize(entries, routingTableEntries int) {
	lsdbEntries.Set(float64(entries))
	routingTableSize.Set(float64(routingTableEntries))
}

// ObserveDijkstra records how long a single Dijkstra run took.
func ObserveDijkstra(d time.Duration) {
	dijkstraDuration.Observe(d.Seconds())
}

// RecordLSAGate records whether an incoming LSA passed the sequence-number
// gate (spec.md §4.7 step 2).
func RecordLSAGate(accepted bool) {
	if accepted {
		lsaAccepted.Inc()
	} else {
		lsaRejected.Inc()
	}
}

// RecordRouteInstall records the outcome of one route-install attempt.
func RecordRouteInstall(err error) {
	if err == nil {
		routeInstalls.WithLabelValues("success").Inc()
	} else {
		routeInstalls.WithLabelValues("failure").Inc()
	}
}

// Serve starts the /metrics HTTP endpoint and blocks until ctx is cancelled
// or the listener fails. Errors from a clean shutdown (ctx cancellation) are
// not returned.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("metrics listening on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
