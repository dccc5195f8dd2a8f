package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metrodocs_http_requests_total",
		Help: "Total number of handled HTTP requests by method and status",
	}, []string{"method", "status"})
	searchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metrodocs_searches_total",
		Help: "Total number of executed document searches",
	})
	uploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metrodocs_uploads_total",
		Help: "Total number of accepted file uploads",
	})
	uploadsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metrodocs_uploads_rejected_total",
		Help: "Total number of uploads rejected by type or size checks",
	})
	jobsCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metrodocs_processing_jobs_completed_total",
		Help: "Total number of processing jobs completed by the sweeper",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(requestsTotal, searchesTotal, uploadsTotal, uploadsRejectedTotal, jobsCompletedTotal)
}

// IncRequest increments the handled requests counter.
func IncRequest(method, status string) { requestsTotal.WithLabelValues(method, status).Inc() }

// IncSearch increments the executed searches counter.
func IncSearch() { searchesTotal.Inc() }

// IncUpload increments the accepted uploads counter.
func IncUpload() { uploadsTotal.Inc() }

// IncUploadRejected increments the rejected uploads counter.
func IncUploadRejected() { uploadsRejectedTotal.Inc() }

// AddJobsCompleted adds to the completed processing jobs counter.
func AddJobsCompleted(n int) { jobsCompletedTotal.Add(float64(n)) }
