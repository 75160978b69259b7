package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "krampus",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "krampus",
			Name:      "reservation_deleted_total",
			Help:      "Count of reservations deleted.",
		},
	)

	notificationSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "krampus",
			Name:      "notification_sent_total",
			Help:      "Count of outbound Telegram sends by kind and result.",
		},
		[]string{"kind", "result"},
	)

	digestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "krampus",
			Name:      "digest_runs_total",
			Help:      "Count of daily digest runs by trigger.",
		},
		[]string{"trigger"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "krampus",
			Name:      "http_requests_total",
			Help:      "Count of API requests by handler.",
		},
		[]string{"handler"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, reservationDeleted, notificationSent, digestRuns, httpRequests)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncReservationDeleted() {
	reservationDeleted.Inc()
}

func IncNotificationSent(kind, result string) {
	notificationSent.WithLabelValues(kind, result).Inc()
}

func IncDigestRun(trigger string) {
	digestRuns.WithLabelValues(trigger).Inc()
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}
