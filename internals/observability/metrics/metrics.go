package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BillsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kost_bills_generated_total",
			Help: "Total number of generated bills",
		},
		[]string{"prorated"},
	)

	BillGenerationRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kost_bill_generation_rejected_total",
			Help: "Bill generation requests rejected before persistence, per reason",
		},
		[]string{"reason"},
	)

	BillsPaidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kost_bills_paid_total",
			Help: "Bills marked as paid, per source",
		},
		[]string{"source"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kost_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kost_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kost_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

func ObserveBillGenerated(prorated bool) {
	BillsGeneratedTotal.WithLabelValues(strconv.FormatBool(prorated)).Inc()
}

func ObserveBillRejected(reason string) {
	BillGenerationRejectedTotal.WithLabelValues(reason).Inc()
}

func ObserveBillPaid(source string) {
	BillsPaidTotal.WithLabelValues(source).Inc()
}

func UpdateJobMetrics(job string, err error) {
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
