// Package render draws run progress and results to a terminal. It is a
// pure consumer of RunState snapshots and the metrics helpers; nothing
// here feeds back into the pipeline.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Ashbinbiju/SwingScanner/internal/metrics"
	"github.com/Ashbinbiju/SwingScanner/internal/state"
)

// ANSI escape codes
const (
	Reset      = "\033[0m"
	Bold       = "\033[1m"
	Dim        = "\033[2m"
	White      = "\033[37m"
	Green      = "\033[32m"
	Red        = "\033[31m"
	Yellow     = "\033[33m"
	Cyan       = "\033[36m"
	BoldCyan   = "\033[1;36m"
	BoldRed    = "\033[1;31m"
	BoldWhite  = "\033[1;37m"
	BoldGreen  = "\033[1;32m"
	BoldYellow = "\033[1;33m"
	BoldBlue   = "\033[1;34m"
)

// Header prints the configuration bar at the start of a run.
//
//nolint:errcheck // display-only writes to terminal
func Header(w io.Writer, date, baseURL string) {
	bar := BoldBlue + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" + Reset

	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "  %sDate%s     %s%s%s\n", Dim, Reset, BoldCyan, date, Reset)
	fmt.Fprintf(w, "  %sBackend%s  %s%s%s\n", Dim, Reset, White, baseURL, Reset)
	fmt.Fprintln(w, bar)
}

// View renders snapshots incrementally: each new log entry once, plus a
// progress line whenever the reported percent or symbol moves.
type View struct {
	w            io.Writer
	logsShown    int
	lastProgress string
}

// NewView creates a View writing to w.
func NewView(w io.Writer) *View {
	return &View{w: w}
}

// Update prints whatever changed between the last snapshot and s.
//
//nolint:errcheck // display-only writes to terminal
func (v *View) Update(s state.RunState) {
	for ; v.logsShown < len(s.Logs); v.logsShown++ {
		fmt.Fprintln(v.w, colorLog(s.Logs[v.logsShown]))
	}

	if !s.Running {
		return
	}
	line := progressLine(s)
	if line != "" && line != v.lastProgress {
		fmt.Fprintln(v.w, line)
		v.lastProgress = line
	}
}

func progressLine(s state.RunState) string {
	if s.CurrentSymbol == "" && s.Progress == 0 {
		return ""
	}
	line := fmt.Sprintf("  %s%3.0f%%%s", BoldWhite, s.Progress, Reset)
	if s.CurrentSymbol != "" {
		line += fmt.Sprintf("  %s▸ %s%s", Cyan, s.CurrentSymbol, Reset)
	}
	if s.Status != "" {
		line += fmt.Sprintf("  %s%s%s", Dim, s.Status, Reset)
	}
	return line
}

func colorLog(entry string) string {
	switch {
	case strings.HasPrefix(entry, "[MATCH]"):
		return "  " + BoldGreen + entry + Reset
	case strings.HasPrefix(entry, "[ERROR]"):
		return "  " + BoldRed + entry + Reset
	case strings.HasPrefix(entry, "[COMPLETE]"):
		return "  " + BoldBlue + entry + Reset
	default:
		return "  " + Dim + entry + Reset
	}
}

// Summary prints the final results: the valid setups table with derived
// percentages, any rejections, and the log tail when the run failed.
//
//nolint:errcheck // display-only writes to terminal
func Summary(w io.Writer, s state.RunState) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sValid Long Setups (%d)%s\n", BoldGreen, len(s.ValidTrades), Reset)

	if len(s.ValidTrades) == 0 {
		fmt.Fprintf(w, "  %sNo valid setups found.%s\n", Dim, Reset)
	} else {
		fmt.Fprintf(w, "  %s%-14s %9s %9s %8s %9s %8s %9s %8s  %s%s\n", Dim,
			"SYMBOL", "LTP", "CLOSE", "CHG%", "SL", "SL%", "TARGET", "TGT%", "FLAGS", Reset)
		for _, tr := range s.ValidTrades {
			change := metrics.ChangePct(tr.LTP, tr.Close)
			tgtDist := metrics.TargetDist(tr.Target, tr.LTP)
			slDist := metrics.StopDist(tr.StopLoss, tr.LTP)

			tgtCell := fmt.Sprintf("%+7.2f%%", tgtDist)
			if metrics.TargetHit(tgtDist) {
				tgtCell = Green + tgtCell + " ✓" + Reset
			}

			fmt.Fprintf(w, "  %s%-14s%s %9.2f %9.2f %s%+7.2f%%%s %9.2f %+7.2f%% %9.2f %s  %s\n",
				BoldWhite, tr.Symbol, Reset,
				tr.LTP, tr.Close,
				changeColor(change), change, Reset,
				tr.StopLoss, slDist,
				tr.Target, tgtCell,
				flags(tr.IsMTF, tr.IsStage2, tr.Note))
		}
	}

	if len(s.RejectedTrades) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%sRejected Signals (%d)%s\n", BoldRed, len(s.RejectedTrades), Reset)
		for _, rej := range s.RejectedTrades {
			fmt.Fprintf(w, "  %s%-14s%s %s%s%s\n", White, rej.Symbol, Reset, Dim, rej.Reason, Reset)
		}
	}

	if failed(s) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s%s%s\n", BoldRed, s.Status, Reset)
		for _, entry := range logTail(s.Logs, 5) {
			fmt.Fprintf(w, "  %s%s%s\n", Dim, entry, Reset)
		}
	}
}

func changeColor(pct float64) string {
	if pct < 0 {
		return Red
	}
	return Green
}

func flags(mtf, stage2 bool, note string) string {
	var parts []string
	if mtf {
		parts = append(parts, "MTF")
	}
	if stage2 {
		parts = append(parts, "S2")
	}
	if note != "" {
		parts = append(parts, note)
	}
	return strings.Join(parts, " ")
}

func failed(s state.RunState) bool {
	return strings.HasPrefix(s.Status, "Backtest failed")
}

func logTail(logs []string, n int) []string {
	if len(logs) <= n {
		return logs
	}
	return logs[len(logs)-n:]
}
