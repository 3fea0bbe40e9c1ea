package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics defines our Prometheus metrics
type Metrics struct {
	RequestCount      *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ActiveSubscribers *prometheus.GaugeVec
	RoomOperations    *prometheus.CounterVec
	UpdateConflicts   prometheus.Counter
}

// New registers the metric set on reg. Pass prometheus.DefaultRegisterer
// in production; tests use a fresh registry so repeated setup does not
// collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roomsync_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roomsync_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		ActiveSubscribers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "roomsync_room_subscribers",
			Help: "Active WebSocket subscribers per room",
		}, []string{"room_id"}),

		RoomOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roomsync_room_operations_total",
			Help: "Room lifecycle operations by type and outcome",
		}, []string{"operation", "outcome"}),

		UpdateConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "roomsync_room_update_conflicts_total",
			Help: "Optimistic-concurrency conflicts observed on room writes",
		}),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
