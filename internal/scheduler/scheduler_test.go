package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalystScanner/internal/model"
	"CatalystScanner/internal/recorder"
	"CatalystScanner/internal/scanner"
	"CatalystScanner/internal/strategy"
)

type scanCall struct {
	symbol string
	dte    int
}

type fakeScanner struct {
	calls   []scanCall
	history []recorder.ScanRecord
	err     error
	noRep   bool
}

func (f *fakeScanner) Scan(_ context.Context, symbol string, dte int) (*model.ScanReport, error) {
	f.calls = append(f.calls, scanCall{symbol, dte})
	if f.noRep {
		return nil, f.err
	}
	return &model.ScanReport{
		Symbol:         symbol,
		DTE:            dte,
		ScannedAt:      time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC),
		Risk:           model.RiskAssessment{Score: 10, Level: model.RiskLow},
		Recommendation: model.Recommendation{Verdict: "Favorable Conditions"},
	}, f.err
}

func (f *fakeScanner) History(context.Context, string, int) ([]recorder.ScanRecord, error) {
	return f.history, f.err
}

type fakeSender struct {
	msgs []string
	err  error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.msgs = append(f.msgs, text)
	return f.err
}

func TestHandleCommand_Scan(t *testing.T) {
	sc := &fakeScanner{}
	s := NewScheduler(context.Background(), sc, nil, nil, 14)

	reply := s.HandleCommand(context.Background(), "/scan abnb")
	assert.Contains(t, reply, "abnb PUT credit spread scan")
	assert.Contains(t, reply, "Favorable Conditions")

	s.HandleCommand(context.Background(), "/scan@CatalystBot TSLA 30")
	require.Len(t, sc.calls, 2)
	assert.Equal(t, scanCall{"abnb", 14}, sc.calls[0])
	assert.Equal(t, scanCall{"TSLA", 30}, sc.calls[1])
}

func TestHandleCommand_ScanUsage(t *testing.T) {
	sc := &fakeScanner{}
	s := NewScheduler(context.Background(), sc, nil, nil, 14)

	assert.Equal(t, "Usage: /scan TICKER [DTE]", s.HandleCommand(context.Background(), "/scan"))
	assert.Equal(t, "DTE must be a whole number of days", s.HandleCommand(context.Background(), "/scan ABNB two"))
	assert.Empty(t, sc.calls)
}

func TestHandleCommand_ScanErrors(t *testing.T) {
	sc := &fakeScanner{noRep: true, err: fmt.Errorf("%w: dte must be within 5..45, got 60", scanner.ErrInvalidParams)}
	s := NewScheduler(context.Background(), sc, nil, nil, 14)
	assert.Contains(t, s.HandleCommand(context.Background(), "/scan ABNB 60"), "dte must be within 5..45")

	sc = &fakeScanner{err: fmt.Errorf("plan spread: %w", strategy.ErrInvalidSpreadParameters)}
	s.Scanner = sc
	reply := s.HandleCommand(context.Background(), "/scan PENNY")
	assert.Contains(t, reply, "PENNY PUT credit spread scan")
	assert.Contains(t, reply, "invalid spread parameters")
}

type unreachableCollector struct{ called bool }

func (u *unreachableCollector) Collect(context.Context, string, time.Time) (*model.MarketSnapshot, error) {
	u.called = true
	return nil, errors.New("collect should not run")
}

func TestHandleCommand_ScanExplicitZeroDTE(t *testing.T) {
	col := &unreachableCollector{}
	s := NewScheduler(context.Background(), scanner.New(col, nil, strategy.DefaultParams()), nil, nil, 14)

	assert.Contains(t, s.HandleCommand(context.Background(), "/scan ABNB 0"), "dte must be within 5..45, got 0")
	assert.Contains(t, s.HandleCommand(context.Background(), "/scan ABNB -3"), "got -3")
	assert.False(t, col.called)
}

func TestHandleCommand_History(t *testing.T) {
	sc := &fakeScanner{history: []recorder.ScanRecord{
		{ScannedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC).Unix(), RiskLevel: "Medium", RiskScore: 30, CurrentPrice: 101},
	}}
	s := NewScheduler(context.Background(), sc, nil, nil, 14)

	reply := s.HandleCommand(context.Background(), "/history abnb")
	assert.Contains(t, reply, "ABNB scan history")
	assert.Contains(t, reply, "Medium 30")

	assert.Equal(t, "Usage: /history TICKER", s.HandleCommand(context.Background(), "/history"))

	sc.err = errors.New("db locked")
	assert.Contains(t, s.HandleCommand(context.Background(), "/history abnb"), "history unavailable")
}

func TestHandleCommand_Help(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeScanner{}, nil, nil, 14)
	for _, cmd := range []string{"/help", "hello", ""} {
		assert.Contains(t, s.HandleCommand(context.Background(), cmd), "/scan TICKER [DTE]")
	}
}

func TestRunNow_PushesEveryWatchlistSymbol(t *testing.T) {
	sc := &fakeScanner{}
	snd := &fakeSender{}
	s := NewScheduler(context.Background(), sc, snd, []string{"ABNB", "TSLA"}, 21)

	s.RunNow()
	require.Len(t, sc.calls, 2)
	assert.Equal(t, 21, sc.calls[1].dte)
	require.Len(t, snd.msgs, 2)
	assert.Contains(t, snd.msgs[1], "TSLA")
}

func TestRunNow_ReportsFailures(t *testing.T) {
	sc := &fakeScanner{noRep: true, err: errors.New("boom")}
	snd := &fakeSender{}
	s := NewScheduler(context.Background(), sc, snd, []string{"ABNB"}, 14)

	s.RunNow()
	require.Len(t, snd.msgs, 1)
	assert.Contains(t, snd.msgs[0], "ABNB scan failed: boom")
}

func TestRunNow_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := &fakeScanner{}
	s := NewScheduler(ctx, sc, nil, []string{"ABNB", "TSLA"}, 14)
	s.RunNow()
	assert.Empty(t, sc.calls)
}

func TestRegister_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeScanner{}, nil, nil, 14)
	assert.Error(t, s.Register("not a cron"))
	assert.NoError(t, s.Register("0 30 9 * * 1-5"))
}
