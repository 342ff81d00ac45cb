package handlers

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcawcutt/socialspark-scheduler/internal/monitoring"
)

// SchedulerMetrics holds the scheduler-specific Prometheus metrics.
type SchedulerMetrics struct {
	DropOutcomes  *prometheus.CounterVec
	Reschedules   *prometheus.CounterVec
	Distributions *prometheus.CounterVec
	CacheEvents   *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// NewSchedulerMetrics builds and registers the scheduler metrics.
func NewSchedulerMetrics(mc *monitoring.MetricsCollector) *SchedulerMetrics {
	m := &SchedulerMetrics{
		DropOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_drop_outcomes_total",
			Help: "Drag gesture outcomes by kind",
		}, []string{"outcome"}),
		Reschedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_reschedules_total",
			Help: "Reschedule commands by result",
		}, []string{"result"}),
		Distributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_evergreen_distributions_total",
			Help: "Evergreen distribution requests by result",
		}, []string{"result"}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_post_cache_events_total",
			Help: "Brand post cache traffic",
		}, []string{"event"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_notifications_total",
			Help: "Operator notifications by severity",
		}, []string{"severity"}),
	}

	mc.Register(m.DropOutcomes)
	mc.Register(m.Reschedules)
	mc.Register(m.Distributions)
	mc.Register(m.CacheEvents)
	mc.Register(m.Notifications)

	return m
}

func (m *SchedulerMetrics) IncDrop(outcome string) {
	if m == nil || m.DropOutcomes == nil {
		return
	}
	m.DropOutcomes.WithLabelValues(outcome).Inc()
}

func (m *SchedulerMetrics) IncReschedule(result string) {
	if m == nil || m.Reschedules == nil {
		return
	}
	m.Reschedules.WithLabelValues(result).Inc()
}

func (m *SchedulerMetrics) IncDistribution(result string) {
	if m == nil || m.Distributions == nil {
		return
	}
	m.Distributions.WithLabelValues(result).Inc()
}

func (m *SchedulerMetrics) IncCache(event string) {
	if m == nil || m.CacheEvents == nil {
		return
	}
	m.CacheEvents.WithLabelValues(event).Inc()
}

func (m *SchedulerMetrics) IncNotification(severity string) {
	if m == nil || m.Notifications == nil {
		return
	}
	m.Notifications.WithLabelValues(severity).Inc()
}
