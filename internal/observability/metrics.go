package observability

import (
	"errors"
	"time"

	"github.com/hr-compass/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hrcompass"

// Metrics holds the service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	OTPIssued     *prometheus.CounterVec
	OTPRedeemed   *prometheus.CounterVec
	ChatRelays    *prometheus.CounterVec
	RelayDuration prometheus.Histogram
}

// NewMetrics registers the metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OTPIssued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "otp",
			Name:      "issued_total",
			Help:      "OTP issuance attempts by intent and result.",
		}, []string{"intent", "result"}),
		OTPRedeemed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "otp",
			Name:      "redeemed_total",
			Help:      "OTP redemption attempts by intent and result.",
		}, []string{"intent", "result"}),
		ChatRelays: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "relays_total",
			Help:      "Chat relay calls by result.",
		}, []string{"result"}),
		RelayDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "relay_duration_seconds",
			Help:      "Round-trip time of LLM completions.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
}

func (m *Metrics) ObserveIssue(intent domain.Intent, err error) {
	if m == nil {
		return
	}
	m.OTPIssued.WithLabelValues(intentLabel(intent), Result(err)).Inc()
}

func (m *Metrics) ObserveRedeem(intent domain.Intent, err error) {
	if m == nil {
		return
	}
	m.OTPRedeemed.WithLabelValues(intentLabel(intent), Result(err)).Inc()
}

func (m *Metrics) ObserveRelay(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.ChatRelays.WithLabelValues(Result(err)).Inc()
	m.RelayDuration.Observe(d.Seconds())
}

// Result classifies err into a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrBadRequest):
		return "invalid"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
		return "conflict"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	case errors.Is(err, domain.ErrConfiguration):
		return "config"
	default:
		return "error"
	}
}

func intentLabel(i domain.Intent) string {
	switch i {
	case domain.IntentSignup, domain.IntentLogin, domain.IntentVerifyLogin:
		return string(i)
	case domain.IntentNone:
		return "none"
	default:
		return "other"
	}
}
