// Package metrics exposes Prometheus counters for the board and dev server.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stretchboard"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status code.",
		},
		[]string{"route", "code"},
	)

	apiCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "Outbound booking API calls by operation and result.",
		},
		[]string{"operation", "result"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Day list cache lookups by result.",
		},
		[]string{"result"},
	)

	commits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Reschedule commits by outcome.",
		},
		[]string{"result"},
	)

	commitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_duration_seconds",
			Help:      "Time spent persisting a reschedule.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, apiCalls, cacheLookups, commits, commitDuration)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncHTTP counts a served request.
func IncHTTP(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// IncAPICall counts an outbound call; err decides the result label.
func IncAPICall(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	apiCalls.WithLabelValues(operation, result).Inc()
}

// IncCache counts a cache hit or miss.
func IncCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCommit records a resolved reschedule. Its signature matches
// schedule.CommitObserver.
func ObserveCommit(result string, elapsed time.Duration) {
	commits.WithLabelValues(result).Inc()
	commitDuration.Observe(elapsed.Seconds())
}
