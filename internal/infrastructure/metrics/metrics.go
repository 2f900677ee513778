// Package metrics holds the Prometheus collectors of the POS engine. They
// register on the default registry and are served from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Checkouts counts confirm attempts by outcome: "confirmed" or an error kind.
var Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "retailpos",
	Subsystem: "checkout",
	Name:      "attempts_total",
	Help:      "Sale confirmations by outcome.",
}, []string{"outcome"})

// CheckoutDuration tracks how long a confirm takes, locks included.
var CheckoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "retailpos",
	Subsystem: "checkout",
	Name:      "duration_seconds",
	Help:      "Time spent confirming a sale.",
	Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
})

// SaleAmount tracks confirmed goods totals.
var SaleAmount = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "retailpos",
	Subsystem: "checkout",
	Name:      "sale_total",
	Help:      "Goods total of confirmed sales.",
	Buckets:   prometheus.ExponentialBuckets(100, 2.5, 10),
})

// RegisterTransitions counts register opens and closes.
var RegisterTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "retailpos",
	Subsystem: "register",
	Name:      "transitions_total",
	Help:      "Register session transitions.",
}, []string{"action"})

// StockShortfalls counts confirms and cart edits refused for lack of stock.
var StockShortfalls = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "retailpos",
	Subsystem: "stock",
	Name:      "shortfalls_total",
	Help:      "Operations refused for insufficient stock.",
})

// ObserveCheckout records one confirm attempt
func ObserveCheckout(outcome string, seconds float64) {
	Checkouts.WithLabelValues(outcome).Inc()
	CheckoutDuration.Observe(seconds)
}
