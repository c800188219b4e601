// Package metrics registers the service's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpdatesTotal counts accepted punctuality updates by resulting status.
	UpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetboard_updates_total",
		Help: "Accepted punctuality updates by status.",
	}, []string{"status"})

	// UpdateFailures counts rejected or failed updates by reason.
	UpdateFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetboard_update_failures_total",
		Help: "Rejected or failed updates by reason (validation, store).",
	}, []string{"reason"})

	// BroadcastsTotal counts snapshots fanned out to dashboards.
	BroadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetboard_broadcasts_total",
		Help: "Snapshots fanned out to connected dashboards.",
	})

	// Subscribers tracks the number of currently connected dashboards.
	Subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleetboard_subscribers",
		Help: "Currently connected dashboard subscribers.",
	})
)

func init() {
	prometheus.MustRegister(UpdatesTotal, UpdateFailures, BroadcastsTotal, Subscribers)
}

// Handler returns the HTTP handler serving the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
