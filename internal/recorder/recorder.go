package recorder

import (
	"context"
	"strings"
	"time"

	"CatalystScanner/internal/model"
)

// ScanRecord is one persisted scan as read back from history.
type ScanRecord struct {
	ID           string   `db:"id" json:"id"`
	Symbol       string   `db:"symbol" json:"symbol"`
	ScannedAt    int64    `db:"scanned_at" json:"scanned_at"`
	DTE          int      `db:"dte" json:"dte"`
	Source       string   `db:"source" json:"source"`
	CurrentPrice float64  `db:"current_price" json:"current_price"`
	IVPercentile int      `db:"iv_percentile" json:"iv_percentile"`
	Pivot        float64  `db:"pivot" json:"pivot"`
	Support1     float64  `db:"support1" json:"support1"`
	Support2     float64  `db:"support2" json:"support2"`
	RiskScore    int      `db:"risk_score" json:"risk_score"`
	RiskLevel    string   `db:"risk_level" json:"risk_level"`
	Reasons      string   `db:"reasons" json:"reasons"` // newline separated
	ShortStrike  *float64 `db:"short_strike" json:"short_strike,omitempty"`
	LongStrike   *float64 `db:"long_strike" json:"long_strike,omitempty"`
	Premium      *float64 `db:"premium" json:"premium,omitempty"`
	Contracts    *int     `db:"contracts" json:"contracts,omitempty"`
	MaxProfit    *float64 `db:"max_profit" json:"max_profit,omitempty"`
	MaxLoss      *float64 `db:"max_loss" json:"max_loss,omitempty"`
	DataError    string   `db:"data_error" json:"data_error,omitempty"`
}

// Time returns the scan timestamp in UTC.
func (r ScanRecord) Time() time.Time {
	return time.Unix(r.ScannedAt, 0).UTC()
}

// ReasonList splits the stored reasons back into their original order.
func (r ScanRecord) ReasonList() []string {
	if r.Reasons == "" {
		return nil
	}
	return strings.Split(r.Reasons, "\n")
}

// HasPlan reports whether a spread was sized for this scan.
func (r ScanRecord) HasPlan() bool {
	return r.ShortStrike != nil
}

// NewScanRecord flattens a report into its persisted form.
func NewScanRecord(rep *model.ScanReport) ScanRecord {
	rec := ScanRecord{
		ID:           rep.ID,
		Symbol:       rep.Symbol,
		ScannedAt:    rep.ScannedAt.Unix(),
		DTE:          rep.DTE,
		Source:       rep.Source,
		CurrentPrice: rep.CurrentPrice,
		IVPercentile: rep.IVPercentile,
		Pivot:        rep.Levels.Pivot,
		Support1:     rep.Levels.Support[0],
		Support2:     rep.Levels.Support[1],
		RiskScore:    rep.Risk.Score,
		RiskLevel:    string(rep.Risk.Level),
		Reasons:      strings.Join(rep.Risk.Reasons, "\n"),
		DataError:    rep.DataError,
	}
	if p := rep.Plan; p != nil {
		rec.ShortStrike = &p.ShortStrike
		rec.LongStrike = &p.LongStrike
		rec.Premium = &p.Premium
		rec.Contracts = &p.Contracts
		rec.MaxProfit = &p.MaxProfit
		rec.MaxLoss = &p.MaxLoss
	}
	return rec
}

// Recorder persists scan history for later review.
type Recorder interface {
	RecordScan(ctx context.Context, rep *model.ScanReport) error
	RecentScans(ctx context.Context, symbol string, limit int) ([]ScanRecord, error)
	Close() error
}
