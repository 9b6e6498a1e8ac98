// Package scanner runs one end-to-end scan: collect market data, evaluate
// the spread engine, record the result.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"CatalystScanner/internal/metrics"
	"CatalystScanner/internal/model"
	"CatalystScanner/internal/recorder"
	"CatalystScanner/internal/strategy"
)

// ErrInvalidParams is returned when the requested scan parameters are out of
// range.
var ErrInvalidParams = errors.New("invalid scan parameters")

// symbolPattern accepts ticker forms such as BRK.B, ^GSPC and ES=F.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.^=-]{1,12}$`)

// Collector gathers the market snapshot for one symbol.
type Collector interface {
	Collect(ctx context.Context, symbol string, now time.Time) (*model.MarketSnapshot, error)
}

// Scanner wires the collector, engine and recorder together.
type Scanner struct {
	Collector Collector
	Recorder  recorder.Recorder
	Params    strategy.Params
	Now       func() time.Time
	NewID     func() string
}

// New creates a Scanner with a wall clock and random scan IDs.
func New(c Collector, rec recorder.Recorder, p strategy.Params) *Scanner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scanner{
		Collector: c,
		Recorder:  rec,
		Params:    p,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Scan evaluates symbol for a PUT credit spread expiring dte days out. Callers
// that let the user omit dte pass Params.DTE; any dte outside the accepted
// range, zero included, is ErrInvalidParams.
//
// A failed price fetch still produces a report (High risk, no plan) with
// DataError set. Invalid spread parameters return the partial report together
// with an error wrapping strategy.ErrInvalidSpreadParameters.
func (s *Scanner) Scan(ctx context.Context, symbol string, dte int) (*model.ScanReport, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidParams)
	}
	if !symbolPattern.MatchString(symbol) {
		return nil, fmt.Errorf("%w: malformed symbol %q", ErrInvalidParams, symbol)
	}
	params := s.Params.WithDTE(dte)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	now := s.Now()
	snap, err := s.Collector.Collect(ctx, symbol, now)
	dataErr := ""
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.ScanErrorsTotal.WithLabelValues("collect").Inc()
		log.Error().Err(err).Str("symbol", symbol).Msg("market data unavailable")
		snap = &model.MarketSnapshot{Series: model.PriceSeries{Symbol: symbol}}
		dataErr = err.Error()
	}

	rep, evalErr := strategy.Evaluate(snap, params, now)
	rep.ID = s.NewID()
	rep.Symbol = symbol
	rep.DataError = dataErr
	if evalErr != nil {
		metrics.ScanErrorsTotal.WithLabelValues("plan").Inc()
		log.Error().Err(evalErr).Str("symbol", symbol).Msg("spread planning failed")
	}

	if err := s.Recorder.RecordScan(ctx, rep); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("record scan failed")
	}
	// Only symbols the data source knows get their own series.
	if dataErr == "" {
		metrics.ScansTotal.WithLabelValues(symbol, string(rep.Risk.Level)).Inc()
		metrics.RiskScore.WithLabelValues(symbol).Set(float64(rep.Risk.Score))
	}

	log.Info().
		Str("symbol", symbol).
		Int("dte", params.DTE).
		Float64("price", rep.CurrentPrice).
		Int("score", rep.Risk.Score).
		Str("level", string(rep.Risk.Level)).
		Msg("scan complete")

	return rep, evalErr
}

// History returns up to limit recorded scans for symbol, newest first.
func (s *Scanner) History(ctx context.Context, symbol string, limit int) ([]recorder.ScanRecord, error) {
	return s.Recorder.RecentScans(ctx, strings.ToUpper(strings.TrimSpace(symbol)), limit)
}
