package meters

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reusee/rectm/machines"
)

type Outcome string

const (
	Accepted Outcome = "accepted"
	Rejected Outcome = "rejected"
	Limited  Outcome = "step_limit"
	Canceled Outcome = "canceled"
	Failed   Outcome = "error"
)

// OutcomeOf classifies a finished run.
func OutcomeOf(accepted bool, err error) Outcome {
	switch {
	case errors.Is(err, machines.ErrStepLimit):
		return Limited
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Canceled
	case err != nil:
		return Failed
	case accepted:
		return Accepted
	}
	return Rejected
}

type Meters struct {
	Registry     *prometheus.Registry
	steps        prometheus.Counter
	runs         *prometheus.CounterVec
	runSeconds   prometheus.Histogram
	compilations *prometheus.CounterVec
}

func (Module) Meters() *Meters {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Meters{
		Registry: registry,
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "rectm_machine_steps_total",
			Help: "Machine steps executed",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rectm_machine_runs_total",
			Help: "Machine runs by outcome",
		}, []string{"outcome"}),
		runSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rectm_machine_run_seconds",
			Help:    "Wall time of machine runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		compilations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rectm_compilations_total",
			Help: "Compilations by target",
		}, []string{"target"}),
	}
}

func (m *Meters) ObserveRun(steps int, outcome Outcome, duration time.Duration) {
	m.steps.Add(float64(steps))
	m.runs.WithLabelValues(string(outcome)).Inc()
	m.runSeconds.Observe(duration.Seconds())
}

func (m *Meters) ObserveCompilation(target string) {
	m.compilations.WithLabelValues(target).Inc()
}

func (m *Meters) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		Registry: m.Registry,
	})
}
