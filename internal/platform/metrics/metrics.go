package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Components hold a
// possibly-nil *Metrics so tests can skip registration entirely.
type Metrics struct {
	MessagesReceived   prometheus.Counter
	SessionsStarted    prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	MembersSaved       prometheus.Counter
	SaveFailures       prometheus.Counter
	DeliveryFailures   prometheus.Counter
	HandleDuration     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		MessagesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samajsetu_messages_received_total",
			Help: "Total inbound WhatsApp messages processed",
		}),
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samajsetu_sessions_started_total",
			Help: "Total conversation sessions created or reset via Start",
		}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "samajsetu_validation_failures_total",
			Help: "Field validation failures by field name",
		}, []string{"field"}),
		MembersSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samajsetu_members_saved_total",
			Help: "Total member records committed",
		}),
		SaveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samajsetu_member_save_failures_total",
			Help: "Total member save attempts rolled back",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "samajsetu_delivery_failures_total",
			Help: "Total outbound WhatsApp sends that failed",
		}),
		HandleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "samajsetu_message_handle_duration_seconds",
			Help:    "Time spent handling one inbound message",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordMessage() {
	if m == nil {
		return
	}
	m.MessagesReceived.Inc()
}

func (m *Metrics) RecordSessionStart() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

func (m *Metrics) RecordValidationFailure(field string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(field).Inc()
}

func (m *Metrics) RecordMemberSaved() {
	if m == nil {
		return
	}
	m.MembersSaved.Inc()
}

func (m *Metrics) RecordSaveFailure() {
	if m == nil {
		return
	}
	m.SaveFailures.Inc()
}

func (m *Metrics) RecordDeliveryFailure() {
	if m == nil {
		return
	}
	m.DeliveryFailures.Inc()
}

func (m *Metrics) ObserveHandleDuration(seconds float64) {
	if m == nil {
		return
	}
	m.HandleDuration.Observe(seconds)
}
