package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	jobHunter = "job_hunter"

	// Job metrics
	jobsCreatedTotal   = "jobs_created_total"
	eventsPublished    = "events_published_total"
	jobsProcessedTotal = "jobs_processed_total"

	// Labels
	resultLabel = "result"
	brokerLabel = "broker"
	statusLabel = "status"
)

var jobsCreatedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobHunter,
		Name:      jobsCreatedTotal,
		Help:      "number of job ad create attempts by result",
	},
	[]string{resultLabel},
)

var eventsPublishedMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobHunter,
		Name:      eventsPublished,
		Help:      "number of job created events handed to the broker by result",
	},
	[]string{brokerLabel, resultLabel},
)

var jobsProcessedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobHunter,
		Name:      jobsProcessedTotal,
		Help:      "number of job ads processed by the worker by final status",
	},
	[]string{statusLabel},
)

func IncreaseJobsCreatedMetric(result string) {
	jobsCreatedTotalMetric.With(prometheus.Labels{resultLabel: result}).Inc()
}

func IncreaseEventsPublishedMetric(broker, result string) {
	eventsPublishedMetric.With(prometheus.Labels{brokerLabel: broker, resultLabel: result}).Inc()
}

func IncreaseJobsProcessedMetric(status string) {
	jobsProcessedTotalMetric.With(prometheus.Labels{statusLabel: status}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsCreatedTotalMetric)
	prometheus.MustRegister(eventsPublishedMetric)
	prometheus.MustRegister(jobsProcessedTotalMetric)
}
