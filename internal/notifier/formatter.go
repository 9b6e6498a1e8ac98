package notifier

import (
	"fmt"
	"html"
	"strings"

	"CatalystScanner/internal/model"
	"CatalystScanner/internal/recorder"
	"CatalystScanner/internal/strategy"
)

// LevelIcon returns the traffic-light marker for a risk level.
func LevelIcon(l model.RiskLevel) string {
	switch l {
	case model.RiskHigh:
		return "🔴"
	case model.RiskMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// ImportanceIcon marks high-importance catalysts red, others yellow.
func ImportanceIcon(i model.Importance) string {
	if i == model.ImportanceHigh {
		return "🔴"
	}
	return "🟡"
}

// FormatScanReport formats a scan into a Telegram HTML message.
func FormatScanReport(rep *model.ScanReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔍 <b>%s PUT credit spread scan</b> | %s\n\n",
		html.EscapeString(rep.Symbol), rep.ScannedAt.Format("2006-01-02 15:04")))

	if rep.DataError != "" {
		b.WriteString(fmt.Sprintf("⚠️ Price data unavailable: %s\n\n", html.EscapeString(rep.DataError)))
	} else {
		b.WriteString(fmt.Sprintf("Price: $%.2f (%s) | DTE: %d | IV pct: %d\n\n",
			rep.CurrentPrice, html.EscapeString(rep.Source), rep.DTE, rep.IVPercentile))
	}

	b.WriteString(fmt.Sprintf("%s <b>Risk: %s</b> (%d/100)\n", LevelIcon(rep.Risk.Level), rep.Risk.Level, rep.Risk.Score))
	for _, r := range rep.Risk.Reasons {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(r)))
	}
	b.WriteString("\n")

	if !rep.Levels.IsZero() {
		lv := rep.Levels
		b.WriteString("📐 <b>Levels</b>\n")
		b.WriteString(fmt.Sprintf("  R2 $%.2f | R1 $%.2f\n", lv.Resistance[1], lv.Resistance[0]))
		b.WriteString(fmt.Sprintf("  Pivot $%.2f\n", lv.Pivot))
		b.WriteString(fmt.Sprintf("  S1 $%.2f | S2 $%.2f\n", lv.Support[0], lv.Support[1]))
		tc := rep.Technicals
		b.WriteString(fmt.Sprintf("  RSI14 %.1f | SMA20 $%.2f | SMA50 $%.2f\n\n", tc.RSI14, tc.SMA20, tc.SMA50))
	}

	if p := rep.Plan; p != nil {
		b.WriteString("💰 <b>Spread</b>\n")
		b.WriteString(fmt.Sprintf("  Sell $%.2f P / Buy $%.2f P (width $%.2f)\n", p.ShortStrike, p.LongStrike, p.Width))
		b.WriteString(fmt.Sprintf("  Premium $%.2f × %d contract(s)\n", p.Premium, p.Contracts))
		b.WriteString(fmt.Sprintf("  Max profit $%.2f | Max loss $%.2f\n", p.MaxProfit, p.MaxLoss))
		b.WriteString(fmt.Sprintf("  Collateral $%.2f | ROI %.1f%% | Capital %.1f%%\n", p.Collateral, p.ROI, p.CapitalUsage))
		b.WriteString(fmt.Sprintf("  Break-even $%.2f\n\n", p.BreakEven))
	}

	rec := rep.Recommendation
	b.WriteString(fmt.Sprintf("🧭 <b>%s</b>\n", html.EscapeString(rec.Verdict)))
	for _, n := range rec.Notes {
		b.WriteString(fmt.Sprintf("  - %s\n", html.EscapeString(n)))
	}
	if !rec.Expiration.IsZero() {
		b.WriteString(fmt.Sprintf("  Expiration: %s\n", rec.Expiration.Format("2006-01-02")))
	}
	if rec.Management != "" {
		b.WriteString(fmt.Sprintf("  Management: %s\n", html.EscapeString(rec.Management)))
	}

	if len(rep.Events) > 0 {
		b.WriteString("\n📅 <b>Catalysts</b>\n")
		for _, e := range rep.Events {
			b.WriteString(fmt.Sprintf("  %s %s: %s (%d days)\n", ImportanceIcon(e.Importance),
				html.EscapeString(e.Label), e.Date.Format("2006-01-02"), strategy.DaysUntil(rep.ScannedAt, e.Date)))
		}
	}

	if len(rep.News) > 0 {
		b.WriteString("\n📰 <b>News</b>\n")
		for _, n := range rep.News {
			title := html.EscapeString(n.Title)
			if n.Link != "" {
				title = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(n.Link), title)
			}
			b.WriteString(fmt.Sprintf("  • %s (%s)\n", title, html.EscapeString(n.Publisher)))
		}
	}

	return b.String()
}

// FormatHistory formats recent scans of one symbol, newest first.
func FormatHistory(symbol string, recs []recorder.ScanRecord) string {
	if len(recs) == 0 {
		return fmt.Sprintf("No scan history for %s", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s scan history</b>\n\n", html.EscapeString(symbol)))
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("%s %s | $%.2f | %s %d",
			r.Time().Format("2006-01-02 15:04"), LevelIcon(model.RiskLevel(r.RiskLevel)),
			r.CurrentPrice, r.RiskLevel, r.RiskScore))
		if r.HasPlan() {
			b.WriteString(fmt.Sprintf(" | %.2f/%.2f @ $%.2f", *r.ShortStrike, *r.LongStrike, *r.Premium))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	return "<b>Commands</b>\n" +
		"/scan TICKER [DTE] - scan a ticker (DTE 5-45, default from config)\n" +
		"/history TICKER - recent scans\n" +
		"/help - this message"
}
