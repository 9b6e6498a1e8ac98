package strategy

import (
	"time"

	"CatalystScanner/internal/model"
)

// InvalidPriceReason is the sole reason reported for a zero price.
const InvalidPriceReason = "Invalid price data"

// AssessRisk scores the risk of opening a PUT credit spread now. Reasons are
// reported in evaluation order: events, support proximity, volatility.
func AssessRisk(events []model.CalendarEvent, dte int, currentPrice float64, supports []float64, ivPercentile int, now time.Time) model.RiskAssessment {
	if currentPrice == 0 {
		return model.RiskAssessment{
			Score:   100,
			Level:   model.RiskHigh,
			Reasons: []string{InvalidPriceReason},
		}
	}

	factors := scoreEvents(events, dte, now)
	if f, ok := scoreSupport(currentPrice, supports); ok {
		factors = append(factors, f)
	}
	if f, ok := scoreVolatility(ivPercentile); ok {
		factors = append(factors, f)
	}

	score := 0
	reasons := make([]string, 0, len(factors))
	for _, f := range factors {
		score += f.Points
		reasons = append(reasons, f.Reason)
	}
	score = clampScore(score)

	return model.RiskAssessment{
		Score:   score,
		Level:   classify(score),
		Reasons: reasons,
		Factors: factors,
	}
}

func clampScore(score int) int {
	return max(0, min(100, score))
}

func classify(score int) model.RiskLevel {
	switch {
	case score >= 50:
		return model.RiskHigh
	case score >= 25:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// UpcomingEvents keeps events dated today or later, preserving order.
func UpcomingEvents(events []model.CalendarEvent, now time.Time) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if DaysUntil(now, ev.Date) >= 0 {
			out = append(out, ev)
		}
	}
	return out
}
