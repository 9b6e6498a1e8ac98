package calculator

import "CatalystScanner/internal/model"

// Summarize computes the context indicators for a window. Indicators that
// lack history are left at zero (RSI at NeutralRSI).
func Summarize(bars []model.OHLCV) model.Technicals {
	t := model.Technicals{Bars: len(bars), RSI14: NeutralRSI}
	if len(bars) == 0 {
		return t
	}
	t.High, t.Low, _ = HighLow(bars, 0)
	if rsi, err := RSI(bars, 14); err == nil {
		t.RSI14 = rsi
	}
	if v, err := CloseSMA(bars, 20); err == nil {
		t.SMA20 = v
	}
	if v, err := CloseSMA(bars, 50); err == nil {
		t.SMA50 = v
	}
	return t
}
