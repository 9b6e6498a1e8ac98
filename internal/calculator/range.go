package calculator

import (
	"errors"
	"math"

	"CatalystScanner/internal/model"
)

// ErrNoBars is returned when a calculation receives an empty window.
var ErrNoBars = errors.New("no bars provided")

// HighLow scans the most recent n bars and returns the highest high and the
// lowest low. n <= 0 scans the whole window.
func HighLow(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrNoBars
	}
	start := 0
	if n > 0 && len(bars) > n {
		start = len(bars) - n
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}
