package engine

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	phasePlan    = "plan"
	phaseReprice = "reprice"
)

type Metrics struct {
	registry *prometheus.Registry

	ordersPlaced   *prometheus.CounterVec
	ordersRejected *prometheus.CounterVec
	outcomes       *prometheus.CounterVec
	trackedOrders  prometheus.Gauge
	lastPass       prometheus.Gauge
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		ordersPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ladderbot_orders_placed_total",
				Help: "Limit orders accepted by the exchange",
			},
			[]string{"phase"},
		),
		ordersRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ladderbot_orders_rejected_total",
				Help: "Limit orders that could not be placed",
			},
			[]string{"phase"},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ladderbot_reconcile_outcomes_total",
				Help: "Reconciliation results per tracked order",
			},
			[]string{"outcome"},
		),
		trackedOrders: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ladderbot_tracked_orders",
				Help: "Live orders in the last written snapshot",
			},
		),
		lastPass: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ladderbot_last_pass_timestamp_seconds",
				Help: "Unix time of the last completed reconciliation pass",
			},
		),
	}

	registry.MustRegister(m.ordersPlaced, m.ordersRejected, m.outcomes, m.trackedOrders, m.lastPass)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) orderPlaced(phase string) {
	m.ordersPlaced.WithLabelValues(phase).Inc()
}

func (m *Metrics) orderRejected(phase string) {
	m.ordersRejected.WithLabelValues(phase).Inc()
}

func (m *Metrics) observePass(r Report, live int) {
	m.outcomes.WithLabelValues(string(OutcomeFilled)).Add(float64(r.Filled))
	m.outcomes.WithLabelValues(string(OutcomeRepriced)).Add(float64(r.Repriced))
	m.outcomes.WithLabelValues(string(OutcomeRetained)).Add(float64(r.Retained))
	m.outcomes.WithLabelValues(string(OutcomeUnexpected)).Add(float64(r.Unexpected))
	m.outcomes.WithLabelValues(string(OutcomeDropped)).Add(float64(r.Dropped))
	m.trackedOrders.Set(float64(live))
	m.lastPass.Set(float64(time.Now().Unix()))
}
