package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelEndpoint = "endpoint"
	labelKind     = "kind"
	labelType     = "type"
	labelSource   = "source"

	typeSuccess = "success"
	typeFailed  = "failed"

	// failure kinds recorded per endpoint
	KindRateLimited = "rate_limited"
	KindServerBusy  = "server_busy"
	KindOther       = "other"
)

var (
	submissionAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relayer_submission_attempts",
		Help: "The total number of bundle submission attempt rounds (counter)",
	})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayer_submissions",
		Help: "The total number of finished bundle submissions (counter)",
	}, []string{labelType})

	endpointFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayer_endpoint_failures",
		Help: "The total number of per-endpoint submission failures (counter)",
	}, []string{labelEndpoint, labelKind})

	feeEscalations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relayer_fee_escalations",
		Help: "The total number of fee multiplier escalations caused by rate limits (counter)",
	})

	feeTxBuildFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relayer_fee_tx_build_failures",
		Help: "The total number of aborted attempts due to fee transaction build failures (counter)",
	})

	confirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayer_confirmations",
		Help: "The total number of finished confirmation waits (counter)",
	}, []string{labelType, labelSource})

	submissionTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relayer_submission_time",
		Help:    "A histogram of bundle submission duration",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 30},
	}, []string{labelType})

	confirmationTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relayer_confirmation_time",
		Help:    "A histogram of bundle confirmation duration",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{labelType})

	pendingBundlesQueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relayer_pending_bundles_queue_size",
		Help: "The current number of submitted bundles awaiting confirmation (gauge)",
	})
)

func IncSubmissionAttempt() {
	submissionAttempts.Inc()
}

func IncEndpointFailure(endpoint string, kind string) {
	endpointFailures.WithLabelValues(endpoint, kind).Inc()
}

func IncFeeEscalation() {
	feeEscalations.Inc()
}

func IncFeeTxBuildFailure() {
	feeTxBuildFailures.Inc()
}

func AddSuccessSubmission(seconds float64) {
	submissions.WithLabelValues(typeSuccess).Inc()
	submissionTime.WithLabelValues(typeSuccess).Observe(seconds)
}

func AddFailedSubmission(seconds float64) {
	submissions.WithLabelValues(typeFailed).Inc()
	submissionTime.WithLabelValues(typeFailed).Observe(seconds)
}

func AddSuccessConfirmation(source string, seconds float64) {
	confirmations.WithLabelValues(typeSuccess, source).Inc()
	confirmationTime.WithLabelValues(typeSuccess).Observe(seconds)
}

func AddFailedConfirmation(seconds float64) {
	confirmations.WithLabelValues(typeFailed, "none").Inc()
	confirmationTime.WithLabelValues(typeFailed).Observe(seconds)
}

func SetPendingBundlesQueueSize(size int) {
	pendingBundlesQueueSize.Set(float64(size))
}
