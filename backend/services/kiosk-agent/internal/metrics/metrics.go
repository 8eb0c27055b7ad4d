// Package metrics exposes kiosk flow counters for Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"batteryswap/backend/services/kiosk-agent/internal/swap"
)

const namespace = "kiosk"

// Collector records flow activity. It satisfies flow.Recorder.
type Collector struct {
	events      *prometheus.CounterVec
	ignored     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	completed   prometheus.Counter
	connected   prometheus.Gauge
}

// NewCollector registers the kiosk metrics on reg.
func NewCollector(reg prometheus.Registerer, stationID string) *Collector {
	labels := prometheus.Labels{"station": stationID}
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "events_received_total",
			Help:        "Real-time events received, by event name.",
			ConstLabels: labels,
		}, []string{"event"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "events_ignored_total",
			Help:        "Events logged and dropped without a transition.",
			ConstLabels: labels,
		}, []string{"event", "reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "step_transitions_total",
			Help:        "Step changes of the swap flow.",
			ConstLabels: labels,
		}, []string{"from", "to"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "alerts_total",
			Help:        "Alerts shown to the operator, by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "swaps_completed_total",
			Help:        "Swaps that reached the final step.",
			ConstLabels: labels,
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "channel_connected",
			Help:        "1 while the real-time channel is connected.",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(c.events, c.ignored, c.transitions, c.alerts, c.completed, c.connected)
	return c
}

// NewRegistry returns a registry with the Go and process collectors attached.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (c *Collector) EventReceived(event string) {
	c.events.WithLabelValues(event).Inc()
}

func (c *Collector) EventIgnored(event, reason string) {
	c.ignored.WithLabelValues(event, reason).Inc()
}

func (c *Collector) Transition(from, to swap.Step) {
	c.transitions.WithLabelValues(strconv.Itoa(int(from)), strconv.Itoa(int(to))).Inc()
	if to == swap.StepComplete && from != swap.StepComplete {
		c.completed.Inc()
	}
}

func (c *Collector) AlertRaised(kind swap.AlertKind) {
	c.alerts.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) SetConnected(connected bool) {
	if connected {
		c.connected.Set(1)
		return
	}
	c.connected.Set(0)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
