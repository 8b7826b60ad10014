// Package telemetry exports game counters to prometheus.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
)

const namespace = "bazaar"

// Prometheus реализует session.Observer.
type Prometheus struct {
	actions  *prometheus.CounterVec
	events   *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	active   prometheus.Gauge
}

var _ session.Observer = (*Prometheus)(nil)

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Player actions by result.",
		}, []string{"action", "result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Game events emitted.",
		}, []string{"type"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome.",
		}, []string{"outcome"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions held in memory.",
		}),
	}

	reg.MustRegister(p.actions, p.events, p.outcomes, p.active)

	return p
}

func (p *Prometheus) ActionApplied(action value.Action, err error) {
	result := "ok"
	if err != nil {
		result = "inapplicable"
	}

	p.actions.WithLabelValues(action.String(), result).Inc()
}

func (p *Prometheus) EventEmitted(ev entity.Event) {
	p.events.WithLabelValues(string(ev.Type)).Inc()

	if over, ok := ev.Payload.(entity.GameOver); ok {
		outcome := "lost"
		if over.Won {
			outcome = "won"
		}

		p.outcomes.WithLabelValues(outcome).Inc()
	}
}

func (p *Prometheus) SessionsActive(n int) {
	p.active.Set(float64(n))
}
