package model

import "time"

// RiskLevel classifies a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskFactor is one check's contribution to the risk score.
type RiskFactor struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// RiskAssessment is the output of the risk engine.
type RiskAssessment struct {
	Score   int          `json:"score"`
	Level   RiskLevel    `json:"level"`
	Reasons []string     `json:"reasons"`
	Factors []RiskFactor `json:"factors,omitempty"`
}

// SpreadPlan describes a PUT credit spread sized against capital.
type SpreadPlan struct {
	ShortStrike  float64 `json:"short_strike"`
	LongStrike   float64 `json:"long_strike"`
	Width        float64 `json:"width"`
	Premium      float64 `json:"premium"`
	Contracts    int     `json:"contracts"`
	MaxProfit    float64 `json:"max_profit"`
	MaxLoss      float64 `json:"max_loss"`
	Collateral   float64 `json:"collateral"`
	ROI          float64 `json:"roi_pct"`
	CapitalUsage float64 `json:"capital_usage_pct"`
	BreakEven    float64 `json:"break_even"`
}

// PnLPoint is one sample of the spread's payoff at expiration.
type PnLPoint struct {
	Price float64 `json:"price"`
	PnL   float64 `json:"pnl"`
}

// Recommendation is the human-facing verdict derived from the risk level.
type Recommendation struct {
	Verdict    string    `json:"verdict"`
	Notes      []string  `json:"notes"`
	Expiration time.Time `json:"expiration"`
	Management string    `json:"management"`
}

// ScanReport is the final output of one scan.
type ScanReport struct {
	ID             string          `json:"id"`
	Symbol         string          `json:"symbol"`
	DTE            int             `json:"dte"`
	ScannedAt      time.Time       `json:"scanned_at"`
	Source         string          `json:"source"`
	CurrentPrice   float64         `json:"current_price"`
	IVPercentile   int             `json:"iv_percentile"`
	Levels         TechnicalLevels `json:"levels"`
	Technicals     Technicals      `json:"technicals"`
	Risk           RiskAssessment  `json:"risk"`
	Plan           *SpreadPlan     `json:"plan,omitempty"`
	Curve          []PnLPoint      `json:"curve,omitempty"`
	Recommendation Recommendation  `json:"recommendation"`
	Events         []CalendarEvent `json:"events"`
	News           []NewsItem      `json:"news"`
	DataError      string          `json:"data_error,omitempty"`
}
