package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_operations_total",
			Help: "Total ticket lifecycle operations by outcome",
		},
		[]string{"operation", "status"},
	)

	expirySweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_sweeps_total",
			Help: "Total expiry sweeps executed",
		},
	)

	expiredHolds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_holds_total",
			Help: "Total holds reclaimed by the expiry sweeper",
		},
	)

	publishedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "published_events_total",
			Help: "Total lifecycle events published by outcome",
		},
		[]string{"type", "status"},
	)
)

func RecordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ticketOperations.WithLabelValues(operation, status).Inc()
}

func RecordSweep(expired int) {
	expirySweeps.Inc()
	expiredHolds.Add(float64(expired))
}

func RecordPublish(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	publishedEvents.WithLabelValues(eventType, status).Inc()
}
