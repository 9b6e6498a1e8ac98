package notifier

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"CatalystScanner/internal/model"
)

// consoleCurveRows is how many P/L samples the console table shows.
const consoleCurveRows = 11

// Console prints scan reports as plain-text tables.
type Console struct {
	out io.Writer
}

// NewConsole creates a console printer on stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a console printer for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Print writes the whole report.
func (c *Console) Print(rep *model.ScanReport) {
	fmt.Fprintf(c.out, "\n%s | %s | DTE %d\n", rep.Symbol, rep.ScannedAt.Format("2006-01-02 15:04"), rep.DTE)
	if rep.DataError != "" {
		fmt.Fprintf(c.out, "price data unavailable: %s\n", rep.DataError)
	} else {
		fmt.Fprintf(c.out, "price $%.2f (%s) | IV percentile %d\n", rep.CurrentPrice, rep.Source, rep.IVPercentile)
	}
	fmt.Fprintf(c.out, "risk %s %d/100\n", rep.Risk.Level, rep.Risk.Score)
	for _, r := range rep.Risk.Reasons {
		fmt.Fprintf(c.out, "  - %s\n", r)
	}

	if !rep.Levels.IsZero() {
		c.printLevels(rep.Levels)
	}
	if rep.Plan != nil {
		c.printPlan(rep.Plan)
		c.printCurve(rep.Curve)
	}
	if len(rep.Events) > 0 {
		c.printEvents(rep)
	}

	fmt.Fprintf(c.out, "%s\n", rep.Recommendation.Verdict)
	for _, n := range rep.Recommendation.Notes {
		fmt.Fprintf(c.out, "  - %s\n", n)
	}
	if rep.Recommendation.Management != "" {
		fmt.Fprintf(c.out, "  %s\n", rep.Recommendation.Management)
	}
}

func (c *Console) printLevels(lv model.TechnicalLevels) {
	table := tablewriter.NewWriter(c.out)
	table.Header("S2", "S1", "Pivot", "R1", "R2")
	table.Append(
		fmt.Sprintf("%.2f", lv.Support[1]),
		fmt.Sprintf("%.2f", lv.Support[0]),
		fmt.Sprintf("%.2f", lv.Pivot),
		fmt.Sprintf("%.2f", lv.Resistance[0]),
		fmt.Sprintf("%.2f", lv.Resistance[1]),
	)
	table.Render()
}

func (c *Console) printPlan(p *model.SpreadPlan) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Short", "Long", "Premium", "Qty", "Max profit", "Max loss", "Collateral", "ROI", "Capital", "BE")
	table.Append(
		fmt.Sprintf("%.2f", p.ShortStrike),
		fmt.Sprintf("%.2f", p.LongStrike),
		fmt.Sprintf("%.2f", p.Premium),
		fmt.Sprintf("%d", p.Contracts),
		fmt.Sprintf("%.2f", p.MaxProfit),
		fmt.Sprintf("%.2f", p.MaxLoss),
		fmt.Sprintf("%.2f", p.Collateral),
		fmt.Sprintf("%.1f%%", p.ROI),
		fmt.Sprintf("%.1f%%", p.CapitalUsage),
		fmt.Sprintf("%.2f", p.BreakEven),
	)
	table.Render()
}

func (c *Console) printCurve(curve []model.PnLPoint) {
	if len(curve) == 0 {
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("Price at expiry", "P/L")
	for _, pt := range sampleCurve(curve, consoleCurveRows) {
		table.Append(fmt.Sprintf("%.2f", pt.Price), fmt.Sprintf("%+.2f", pt.PnL))
	}
	table.Render()
}

func (c *Console) printEvents(rep *model.ScanReport) {
	table := tablewriter.NewWriter(c.out)
	table.Header("", "Catalyst", "Date")
	for _, e := range rep.Events {
		table.Append(ImportanceIcon(e.Importance), e.Label, e.Date.Format("2006-01-02"))
	}
	table.Render()
}

// sampleCurve picks n evenly spaced points including both ends.
func sampleCurve(curve []model.PnLPoint, n int) []model.PnLPoint {
	if len(curve) <= n || n < 2 {
		return curve
	}
	out := make([]model.PnLPoint, 0, n)
	step := float64(len(curve)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, curve[int(float64(i)*step+0.5)])
	}
	return out
}
