// Package volatility supplies the implied-volatility percentile used by the
// risk engine.
package volatility

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"CatalystScanner/internal/calculator"
	"CatalystScanner/internal/model"
)

// Source returns an IV percentile in [0,100] for a ticker. bars is the
// already-fetched daily window, which sources may use or ignore.
type Source interface {
	IVPercentile(ctx context.Context, symbol string, bars []model.OHLCV) (int, error)
	Name() string
}

// Fixed always reports the same percentile.
type Fixed struct {
	Value int
}

func (f Fixed) Name() string { return "fixed" }

func (f Fixed) IVPercentile(context.Context, string, []model.OHLCV) (int, error) {
	return clamp(f.Value), nil
}

// Random draws a percentile uniformly from [Min, Max]. It exists for demos
// without an options feed; the generator is injected.
type Random struct {
	Min, Max int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random source over [min, max].
func NewRandom(rng *rand.Rand, min, max int) *Random {
	if max < min {
		min, max = max, min
	}
	return &Random{Min: min, Max: max, rng: rng}
}

func (r *Random) Name() string { return "random" }

func (r *Random) IVPercentile(context.Context, string, []model.OHLCV) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clamp(r.Min + r.rng.Intn(r.Max-r.Min+1)), nil
}

// Historical ranks the latest realized volatility over Window days against
// its own trailing history. It is a proxy for IV rank when no options chain
// is available.
type Historical struct {
	Window int
}

func (h Historical) Name() string { return "historical" }

func (h Historical) IVPercentile(_ context.Context, symbol string, bars []model.OHLCV) (int, error) {
	vols, err := calculator.RollingVolatility(bars, h.Window)
	if err != nil {
		return 0, fmt.Errorf("realized volatility for %s: %w", symbol, err)
	}
	return clamp(calculator.PercentileRank(vols)), nil
}

// WithFallback returns the primary percentile, or the fallback's when the
// primary fails.
type WithFallback struct {
	Primary  Source
	Fallback Source
}

func (w WithFallback) Name() string { return w.Primary.Name() }

func (w WithFallback) IVPercentile(ctx context.Context, symbol string, bars []model.OHLCV) (int, error) {
	v, err := w.Primary.IVPercentile(ctx, symbol, bars)
	if err == nil {
		return v, nil
	}
	fv, ferr := w.Fallback.IVPercentile(ctx, symbol, bars)
	if ferr != nil {
		return 0, fmt.Errorf("%s: %w; fallback %s: %w", w.Primary.Name(), err, w.Fallback.Name(), ferr)
	}
	return fv, nil
}

func clamp(v int) int {
	return max(0, min(100, v))
}
