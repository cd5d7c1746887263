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
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newswire_search_requests_total",
			Help: "Total number of search API requests issued",
		},
		[]string{"term", "status"},
	)

	FetchResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newswire_fetch_results_total",
			Help: "Total number of article page fetches by outcome kind",
		},
		[]string{"kind"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newswire_fetch_duration_seconds",
			Help:    "Duration of article page fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	FetchBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newswire_fetch_bytes_total",
			Help: "Total bytes downloaded across all article fetches",
		},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newswire_extractions_total",
			Help: "Total number of extraction attempts by site and status",
		},
		[]string{"site", "status"},
	)
)

// RecordSearch counts one search API request. A zero status code means the
// request failed before a response arrived.
func RecordSearch(term string, statusCode int) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	SearchRequestsTotal.WithLabelValues(term, status).Inc()
}

// RecordFetch counts one page fetch outcome with its duration and size.
func RecordFetch(kind string, duration time.Duration, bytes int) {
	FetchResultsTotal.WithLabelValues(kind).Inc()
	FetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	FetchBytesTotal.Add(float64(bytes))
}

// RecordExtraction counts one extraction attempt.
func RecordExtraction(site, status string) {
	if site == "" {
		site = "unknown"
	}
	ExtractionsTotal.WithLabelValues(site, status).Inc()
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
