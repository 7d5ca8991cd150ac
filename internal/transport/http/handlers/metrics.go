package handlers

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics exposes Prometheus collectors for provisioning outcomes.
type GenerationMetrics struct {
	Passwords *prometheus.CounterVec
}

// NewGenerationMetrics constructs the generation counters and registers them
// with the provided registerer.
func NewGenerationMetrics(reg prometheus.Registerer) (*GenerationMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	passwords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passforge",
		Subsystem: "generation",
		Name:      "passwords_total",
		Help:      "Total number of generated passwords partitioned by mode and outcome.",
	}, []string{"mode", "outcome"})

	if err := reg.Register(passwords); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				passwords = existing
			} else {
				return nil, fmt.Errorf("existing passwords collector has unexpected type %T", already.ExistingCollector)
			}
		} else {
			return nil, fmt.Errorf("register passwords collector: %w", err)
		}
	}

	return &GenerationMetrics{Passwords: passwords}, nil
}

func (m *GenerationMetrics) observe(mode string, count int, err error) {
	if m == nil || m.Passwords == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		count = 1
	}
	if count <= 0 {
		return
	}

	m.Passwords.With(prometheus.Labels{"mode": mode, "outcome": outcome}).Add(float64(count))
}
