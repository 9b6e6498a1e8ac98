// Package metrics exposes Prometheus collectors for scans and data fetching.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "catalyst_scans_total", Help: "Completed scans by risk level"},
		[]string{"symbol", "level"},
	)
	ScanErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "catalyst_scan_errors_total", Help: "Scans that ended with an error by stage"},
		[]string{"stage"},
	)
	RiskScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "catalyst_risk_score", Help: "Latest risk score per symbol"},
		[]string{"symbol"},
	)
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "catalyst_fetch_failures_total", Help: "Failed price-history fetches by source"},
		[]string{"source"},
	)
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "catalyst_cache_lookups_total", Help: "Data cache lookups"},
		[]string{"cache", "result"},
	)
)

func init() {
	prometheus.MustRegister(ScansTotal, ScanErrorsTotal, RiskScore, FetchFailuresTotal, CacheLookupsTotal)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
