package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktdecode",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pktdecode",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	decodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktdecode",
			Subsystem: "decoder",
			Name:      "transmissions_total",
			Help:      "Decoded transmissions by result kind.",
		},
		[]string{"result"},
	)
	decodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pktdecode",
			Subsystem: "decoder",
			Name:      "duration_seconds",
			Help:      "Time to decode and evaluate one transmission.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)
	decodePackets = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pktdecode",
			Subsystem: "decoder",
			Name:      "packets",
			Help:      "Packets per successfully decoded transmission.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktdecode",
			Subsystem: "decoder",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups.",
		},
		[]string{"hit"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodes, decodeDuration, decodePackets, cacheLookups)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one transmission. result is "ok" or an error kind;
// packets is only observed for successful decodes.
func RecordDecode(result string, packets int, duration time.Duration) {
	RegisterMetrics()
	decodes.WithLabelValues(result).Inc()
	decodeDuration.Observe(duration.Seconds())
	if result == "ok" {
		decodePackets.Observe(float64(packets))
	}
}

func RecordCacheLookup(hit bool) {
	RegisterMetrics()
	cacheLookups.WithLabelValues(strconv.FormatBool(hit)).Inc()
}
