package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for the booking and payment flows.
type Metrics struct {
	admissions    *prometheus.CounterVec
	notifications *prometheus.CounterVec
	payments      *prometheus.CounterVec
	reconciled    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doctors_portal",
			Subsystem: "booking",
			Name:      "admissions_total",
			Help:      "Booking requests by admission result",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doctors_portal",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Confirmation emails by kind and delivery status",
		}, []string{"kind", "status"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doctors_portal",
			Subsystem: "payment",
			Name:      "confirmations_total",
			Help:      "Payment confirmations by outcome",
		}, []string{"status"}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "doctors_portal",
			Subsystem: "payment",
			Name:      "reconciled_total",
			Help:      "Payment log entries restored by the reconciliation job",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.admissions, m.notifications, m.payments, m.reconciled)
	return m
}

func (m *Metrics) ObserveAdmission(result string) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.notifications.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) ObservePayment(status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveReconciled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconciled.Add(float64(n))
}
