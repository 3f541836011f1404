// Package metrics collects Prometheus counters for repository activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records repository events as Prometheus counters.
type Collector struct {
	duplicateDays   *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	upserts         *prometheus.CounterVec
	reminderFails   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		duplicateDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthlife_duplicate_day_total",
			Help: "Day lookups that found more than one record for the same day.",
		}, []string{"domain"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthlife_storage_failures_total",
			Help: "Storage operations that returned an error.",
		}, []string{"domain", "op"}),
		upserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthlife_upserts_total",
			Help: "Day upserts by outcome.",
		}, []string{"domain", "result"}),
		reminderFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "healthlife_reminder_failures_total",
			Help: "Reminders that could not be scheduled.",
		}),
	}

	reg.MustRegister(
		c.duplicateDays,
		c.storageFailures,
		c.upserts,
		c.reminderFails,
	)

	return c
}

// DuplicateDay records a day lookup that found several records.
func (c *Collector) DuplicateDay(domain string) {
	c.duplicateDays.WithLabelValues(domain).Inc()
}

// StorageFailure records a failed storage operation.
func (c *Collector) StorageFailure(domain, op string) {
	c.storageFailures.WithLabelValues(domain, op).Inc()
}

// Upserted records an upsert that created or updated a record.
func (c *Collector) Upserted(domain string, created bool) {
	result := "updated"
	if created {
		result = "created"
	}
	c.upserts.WithLabelValues(domain, result).Inc()
}

// ReminderFailed records a reminder that could not be scheduled.
func (c *Collector) ReminderFailed() {
	c.reminderFails.Inc()
}

// Handler returns an HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute returns a mux serving /metrics.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
