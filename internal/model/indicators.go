package model

// TechnicalLevels holds floor-trader pivot levels, nearer level first.
// An all-zero value means the levels are unavailable.
type TechnicalLevels struct {
	Pivot      float64    `json:"pivot"`
	Support    [2]float64 `json:"support"`
	Resistance [2]float64 `json:"resistance"`
}

// IsZero reports whether the levels are the "unavailable" sentinel.
func (l TechnicalLevels) IsZero() bool {
	return l == TechnicalLevels{}
}

// Technicals are context indicators shown next to the levels. They do not
// feed the risk score.
type Technicals struct {
	RSI14 float64 `json:"rsi14"`
	SMA20 float64 `json:"sma20"`
	SMA50 float64 `json:"sma50"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Bars  int     `json:"bars"`
}
