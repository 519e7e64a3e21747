package offline

import "github.com/prometheus/client_golang/prometheus"

var (
	enqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "offline_enqueued_total", Help: "Mutations deferred to the offline queue"},
		[]string{"target"},
	)
	sentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "offline_flush_sent_total", Help: "Queued mutations replayed successfully"},
		[]string{"target"},
	)
	failedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "offline_flush_failed_total", Help: "Replay attempts that failed and stayed queued"},
		[]string{"target"},
	)
	droppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "offline_dropped_total", Help: "Queued mutations dropped because of an unknown action"},
		[]string{"target"},
	)
)

func init() { prometheus.MustRegister(enqueuedTotal, sentTotal, failedTotal, droppedTotal) }
