package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

// ScreeningMetrics records pipeline outcomes. It satisfies
// ports.ScreeningObserver.
type ScreeningMetrics struct {
	service string

	screenTotal    *prometheus.CounterVec
	screenDuration *prometheus.HistogramVec
	candidateScore prometheus.Histogram
	retriesTotal   *prometheus.CounterVec
}

func NewScreeningMetrics(service string, registerer prometheus.Registerer) *ScreeningMetrics {
	screenTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "resumes_total",
			Help:      "Total screened resumes by format and status.",
		},
		[]string{"service", "format", "status"},
	)
	screenDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Resume screening duration in seconds by format and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "format", "status"},
	)
	candidateScore := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "candidate_score",
			Help:      "Distribution of candidate total scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Retries performed against external systems.",
		},
		[]string{"service", "operation"},
	)

	registerer.MustRegister(screenTotal, screenDuration, candidateScore, retriesTotal)

	return &ScreeningMetrics{
		service:        service,
		screenTotal:    screenTotal,
		screenDuration: screenDuration,
		candidateScore: candidateScore,
		retriesTotal:   retriesTotal,
	}
}

func (m *ScreeningMetrics) ObserveScreening(format domain.DocumentFormat, duration time.Duration, score float64, err error) {
	status := screeningStatus(err)
	label := string(format)
	if label == "" {
		label = "unknown"
	}

	m.screenTotal.WithLabelValues(m.service, label, status).Inc()
	m.screenDuration.WithLabelValues(m.service, label, status).Observe(duration.Seconds())
	if err == nil {
		m.candidateScore.Observe(score)
	}
}

// ObserveRetry matches resilience.RetryObserver.
func (m *ScreeningMetrics) ObserveRetry(operation string, _ int, _ error) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func screeningStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return "unsupported"
	case domain.IsKind(err, domain.ErrExtraction):
		return "extraction_error"
	default:
		return "error"
	}
}
