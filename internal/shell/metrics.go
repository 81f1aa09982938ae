package shell

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts dispatched commands by action, language and status.
type Metrics struct {
	dispatched *prometheus.CounterVec
}

// NewMetrics creates the dispatch counter and registers it with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codepad_dispatch_total",
				Help: "Total number of save and highlight commands by outcome.",
			},
			[]string{"action", "language", "status"},
		),
	}
	if err := reg.Register(m.dispatched); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(action Action, lang string, status Status) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(string(action), lang, string(status)).Inc()
}
