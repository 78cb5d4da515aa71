package metrics

import (
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all HealthConnect metrics
const namespace = "healthconnect"

// Registry is the Prometheus registry served on /metrics
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Domain metrics
var (
	// EntitiesCreated counts successful creates per entity
	EntitiesCreated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_created_total",
			Help:      "Total number of entities created",
		},
		[]string{"entity"}, // entity: doctor|patient|patient_record|appointment
	)

	// EntitiesDeleted counts successful deletes per entity
	EntitiesDeleted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_deleted_total",
			Help:      "Total number of entities deleted",
		},
		[]string{"entity"},
	)

	// DanglingReferencesCleared counts appointment references dropped at booking
	DanglingReferencesCleared = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_dangling_references_total",
			Help:      "Appointment doctor/patient ids that did not resolve and were stored as null",
		},
		[]string{"reference"}, // reference: doctor|patient
	)

	// AuthAttempts counts signup/login outcomes
	AuthAttempts = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by operation and result",
		},
		[]string{"operation", "result"}, // operation: signup|login, result: success|conflict|invalid|error
	)

	// SessionsIssued counts bearer tokens handed out
	SessionsIssued = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Total number of session tokens issued",
		},
	)

	// EventsPublished counts broker publishes
	EventsPublished = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events published to the message broker",
		},
		[]string{"event", "result"}, // result: success|error
	)

	// EventsConsumed counts messages handled by the worker
	EventsConsumed = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_consumed_total",
			Help:      "Domain events consumed by the notification worker",
		},
		[]string{"event", "result"}, // result: ack|nack
	)

	// RateLimited counts requests rejected by the rate limiter
	RateLimited = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"backend"}, // backend: redis|memory
	)

	// CacheLookups counts response cache lookups
	CacheLookups = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_lookups_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"}, // result: hit|miss|bypass
	)
)

// RegisterDBStats exposes database/sql pool statistics. Registering the
// same pool twice is a no-op.
func RegisterDBStats(db *sql.DB) {
	err := Registry.Register(collectors.NewDBStatsCollector(db, namespace))
	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		panic(err)
	}
}
