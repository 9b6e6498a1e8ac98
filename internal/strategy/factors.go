package strategy

import (
	"fmt"
	"math"
	"time"

	"CatalystScanner/internal/model"
)

const (
	highEventPoints   = 40
	mediumEventPoints = 20

	nearSupportPct        = 2.0
	nearSupportPoints     = 30
	moderateSupportPct    = 5.0
	moderateSupportPoints = 15

	highIVPercentile = 70
	highIVPoints     = -10
	lowIVPercentile  = 30
	lowIVPoints      = 10
)

// scoreEvents adds points for every catalyst landing inside the DTE window.
// Past events and events after expiration contribute nothing.
func scoreEvents(events []model.CalendarEvent, dte int, now time.Time) []model.RiskFactor {
	var out []model.RiskFactor
	for _, ev := range events {
		days := DaysUntil(now, ev.Date)
		if days < 0 || days > dte {
			continue
		}
		points := mediumEventPoints
		if ev.Importance == model.ImportanceHigh {
			points = highEventPoints
		}
		out = append(out, model.RiskFactor{
			Name:   "event",
			Points: points,
			Reason: fmt.Sprintf("Upcoming %s in %d days", ev.Label, days),
		})
	}
	return out
}

// scoreSupport scores proximity to the nearest support. The distance is
// signed: a price already below support reads as "close" too.
func scoreSupport(currentPrice float64, supports []float64) (model.RiskFactor, bool) {
	if len(supports) == 0 {
		return model.RiskFactor{}, false
	}
	closest := supports[0]
	for _, s := range supports[1:] {
		if math.Abs(s-currentPrice) < math.Abs(closest-currentPrice) {
			closest = s
		}
	}
	distancePct := (currentPrice - closest) / currentPrice * 100

	switch {
	case distancePct < nearSupportPct:
		return model.RiskFactor{
			Name:   "support",
			Points: nearSupportPoints,
			Reason: fmt.Sprintf("Close to support level ($%.2f)", closest),
		}, true
	case distancePct < moderateSupportPct:
		return model.RiskFactor{
			Name:   "support",
			Points: moderateSupportPoints,
			Reason: fmt.Sprintf("Moderately close to support level ($%.2f)", closest),
		}, true
	}
	return model.RiskFactor{}, false
}

// scoreVolatility rewards rich premium and penalizes thin premium.
func scoreVolatility(ivPercentile int) (model.RiskFactor, bool) {
	switch {
	case ivPercentile > highIVPercentile:
		return model.RiskFactor{
			Name:   "volatility",
			Points: highIVPoints,
			Reason: "High IV percentile good for option selling",
		}, true
	case ivPercentile < lowIVPercentile:
		return model.RiskFactor{
			Name:   "volatility",
			Points: lowIVPoints,
			Reason: "Low IV percentile means less premium",
		}, true
	}
	return model.RiskFactor{}, false
}

// DaysUntil counts calendar days from now's date to date's date.
func DaysUntil(now, date time.Time) int {
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = date.Date()
	to := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(math.Round(to.Sub(from).Hours() / 24))
}
