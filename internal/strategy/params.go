package strategy

import "fmt"

// DefaultCurvePoints is the P/L curve resolution when none is configured.
const DefaultCurvePoints = 100

// Params carries the user-tunable strategy knobs into every engine call.
type Params struct {
	DTE               int
	StrikeDistancePct float64 // short strike distance below spot, %
	SpreadWidthPct    float64 // long strike distance below short, %
	PremiumFraction   float64 // stand-in credit as a fraction of width
	Capital           float64
	MaxRiskPct        float64 // capital at risk per trade, %
	CurvePoints       int
}

// DefaultParams mirrors the dashboard defaults.
func DefaultParams() Params {
	return Params{
		DTE:               14,
		StrikeDistancePct: 5,
		SpreadWidthPct:    5,
		PremiumFraction:   0.35,
		Capital:           10000,
		MaxRiskPct:        2,
		CurvePoints:       DefaultCurvePoints,
	}
}

// Validate checks the ranges the dashboard exposes.
func (p Params) Validate() error {
	switch {
	case p.DTE < 5 || p.DTE > 45:
		return fmt.Errorf("dte must be within 5..45, got %d", p.DTE)
	case p.StrikeDistancePct <= 0 || p.StrikeDistancePct >= 100:
		return fmt.Errorf("strike distance must be within (0,100), got %.2f", p.StrikeDistancePct)
	case p.SpreadWidthPct <= 0 || p.SpreadWidthPct >= 100:
		return fmt.Errorf("spread width must be within (0,100), got %.2f", p.SpreadWidthPct)
	case p.PremiumFraction <= 0 || p.PremiumFraction >= 1:
		return fmt.Errorf("premium fraction must be within (0,1), got %.2f", p.PremiumFraction)
	case p.Capital <= 0:
		return fmt.Errorf("capital must be positive")
	case p.MaxRiskPct <= 0 || p.MaxRiskPct > 100:
		return fmt.Errorf("max risk must be within (0,100], got %.2f", p.MaxRiskPct)
	}
	return nil
}

// WithDTE returns a copy with a different days-to-expiration.
func (p Params) WithDTE(dte int) Params {
	p.DTE = dte
	return p
}
