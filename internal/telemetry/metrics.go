package telemetry

import (
	"animation-quiz/internal/app"
	"animation-quiz/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts engine cues. Every state transition that matters to operators
// (attempt started, result success/retry, reset) is visible as a cue.
type Metrics struct {
	cues *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "cues_total",
			Help:      "Cues emitted by quiz sessions, by kind.",
		}, []string{"cue"}),
	}
	if reg != nil {
		reg.MustRegister(m.cues)
	}
	return m
}

// Wrap counts each cue and forwards it to next.
func (m *Metrics) Wrap(next app.CueEmitter) app.CueEmitter {
	return app.CueFunc(func(cue domain.Cue) {
		m.cues.WithLabelValues(string(cue)).Inc()
		if next != nil {
			next.Emit(cue)
		}
	})
}
