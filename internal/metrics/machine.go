// Package metrics exports machine activity as Prometheus series.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/tickfsm"
)

// NameFunc maps a state index to the label used for it. A nil NameFunc
// labels states by their decimal index.
type NameFunc func(tickfsm.StateIndex) string

// Collector records ticks and transitions of one named machine.
type Collector struct {
	machine string
	names   NameFunc

	ticks       *prometheus.CounterVec
	transitions *prometheus.CounterVec
	tickErrors  *prometheus.CounterVec
	current     *prometheus.GaugeVec
}

// NewCollector registers the tickfsm series on reg. Passing nil uses the
// default registerer.
func NewCollector(reg prometheus.Registerer, machine string, names NameFunc) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if machine == "" {
		machine = "default"
	}
	f := promauto.With(reg)
	return &Collector{
		machine: machine,
		names:   names,
		ticks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickfsm_ticks_total",
			Help: "Total number of completed machine ticks",
		}, []string{"machine"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickfsm_transitions_total",
			Help: "Total number of state changes by source and destination",
		}, []string{"machine", "from", "to"}),
		tickErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickfsm_tick_errors_total",
			Help: "Total number of failed ticks by reason",
		}, []string{"machine", "reason"}),
		current: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tickfsm_current_state",
			Help: "Index of the state the machine is currently in",
		}, []string{"machine"}),
	}
}

// Observe records a completed tick. It has the signature of a
// tickfsm.WithObserver callback.
func (c *Collector) Observe(step tickfsm.Step) {
	c.ticks.WithLabelValues(c.machine).Inc()
	c.current.WithLabelValues(c.machine).Set(float64(step.To))
	if step.Changed {
		c.transitions.WithLabelValues(c.machine, c.label(step.From), c.label(step.To)).Inc()
	}
}

// ObserveError records a failed tick.
func (c *Collector) ObserveError(err error) {
	if err == nil {
		return
	}
	c.tickErrors.WithLabelValues(c.machine, reason(err)).Inc()
}

func (c *Collector) label(i tickfsm.StateIndex) string {
	if c.names != nil {
		if name := c.names(i); name != "" {
			return name
		}
	}
	return strconv.Itoa(int(i))
}

func reason(err error) string {
	switch {
	case errors.Is(err, tickfsm.ErrCallbackPanic):
		return "panic"
	case errors.Is(err, tickfsm.ErrNoClock):
		return "no_clock"
	case errors.Is(err, tickfsm.ErrEmptyMachine):
		return "empty"
	default:
		return "other"
	}
}
