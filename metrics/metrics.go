// Package metrics provides Prometheus metrics for the wiki client.
// It tracks remote call counts, latencies, and transfer volumes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "dokuwiki"
)

var (
	// CallsTotal counts remote calls by command and status
	CallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "calls_total",
		Help:      "Total number of remote XML-RPC calls",
	}, []string{"command", "status"})

	// CallDuration measures remote call latency distribution
	CallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "call_duration_seconds",
		Help:      "Remote call latency distribution by command",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"command"})

	// CallsInFlight tracks currently executing remote calls
	CallsInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "calls_in_flight",
		Help:      "Number of remote calls currently being processed",
	}, []string{"command"})

	// BytesTransferred counts media payload bytes by direction
	BytesTransferred = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "media_bytes_total",
		Help:      "Total media payload bytes by direction (upload/download)",
	}, []string{"direction"})

	// FaultsTotal counts remote faults by code
	FaultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "faults_total",
		Help:      "Total remote faults by fault code",
	}, []string{"code"})
)

// RecordCall records a completed remote call.
func RecordCall(command string, seconds float64, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	CallsTotal.WithLabelValues(command, status).Inc()
	CallDuration.WithLabelValues(command).Observe(seconds)
}

// RecordUpload adds n bytes to the upload counter.
func RecordUpload(n int) {
	BytesTransferred.WithLabelValues("upload").Add(float64(n))
}

// RecordDownload adds n bytes to the download counter.
func RecordDownload(n int) {
	BytesTransferred.WithLabelValues("download").Add(float64(n))
}

// RecordFault counts a remote fault by its code.
func RecordFault(code string) {
	FaultsTotal.WithLabelValues(code).Inc()
}
