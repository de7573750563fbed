package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvass_provider_requests_total",
			Help: "Total number of search provider requests executed",
		},
		[]string{"provider", "status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "canvass_provider_request_duration_seconds",
			Help:    "Duration of search provider requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	LeadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvass_leads_total",
			Help: "Total leads produced per source",
		},
		[]string{"source"},
	)

	EnrichRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvass_enrich_requests_total",
			Help: "Total enrichment lookups by outcome",
		},
		[]string{"status"},
	)
)

// RecordSearch updates the provider metrics for a completed search call.
// A negative statusCode means the request failed before an HTTP reply.
func RecordSearch(provider string, statusCode int, duration time.Duration, leadCount int) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}

	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if leadCount > 0 {
		LeadsTotal.WithLabelValues(provider).Add(float64(leadCount))
	}
}

// RecordEnrich counts a single enrichment lookup outcome: "enriched",
// "unchanged", "skipped" or "error".
func RecordEnrich(status string) {
	EnrichRequestsTotal.WithLabelValues(status).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
