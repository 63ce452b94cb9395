// Package metrics exposes the prometheus collectors of the proving and
// verification services and the HTTP handler that serves them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zkage"

// Result labels.
const (
	ResultOK            = "ok"
	ResultUnsatisfied   = "unsatisfied"
	ResultSetupDownload = "setup_download"
	ResultFailed        = "failed"
	ResultValid         = "valid"
	ResultInvalid       = "invalid"
	ResultError         = "error"
)

var (
	// Witnesses counts witness executions by result.
	Witnesses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prover",
			Name:      "witnesses_total",
			Help:      "Witness executions by result",
		},
		[]string{"result"},
	)

	// Proofs counts proof generations by result.
	Proofs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prover",
			Name:      "proofs_total",
			Help:      "Proof generations by result",
		},
		[]string{"result"},
	)

	// ProofDuration observes the time spent proving, setup download included.
	ProofDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prover",
			Name:      "proof_duration_seconds",
			Help:      "Proof generation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// Verifications counts proof verifications by result.
	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verifier",
			Name:      "verifications_total",
			Help:      "Proof verifications by result",
		},
		[]string{"result"},
	)

	// Sessions is the number of open API sessions.
	Sessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "sessions_open",
			Help:      "Number of open proof sessions",
		},
	)
)

// ObserveProof records a proof generation that started at start.
func ObserveProof(start time.Time, result string) {
	ProofDuration.Observe(time.Since(start).Seconds())
	Proofs.WithLabelValues(result).Inc()
}

// VerificationResult returns the label of a verification outcome.
func VerificationResult(valid bool, err error) string {
	switch {
	case err != nil:
		return ResultError
	case valid:
		return ResultValid
	default:
		return ResultInvalid
	}
}

// Handler serves the registered collectors in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
