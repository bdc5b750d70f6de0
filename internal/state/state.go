// Package state holds the evolving view of one backtest run and the pure
// reducer that folds server events into it.
package state

import (
	"fmt"

	"github.com/Ashbinbiju/SwingScanner/internal/stream"
)

// RunState is a snapshot of one backtest run. It is a value: the runner
// holds the only live copy and publishes snapshots, so consumers never see
// a state mutated under them. Trades, rejections and logs only grow during
// a run and are reset exactly when a new run starts.
type RunState struct {
	Running       bool
	Progress      float64
	Status        string
	CurrentSymbol string

	ValidTrades    []stream.Trade
	RejectedTrades []stream.RejectedTrade
	Logs           []string
}

// NewRun returns the fresh state for a run that has just started.
func NewRun() RunState {
	return RunState{Running: true}
}

// Finish marks the run over, forcing progress to 100 regardless of the
// last reported value. failure, when non-empty, replaces the status.
func (s RunState) Finish(failure string) RunState {
	s.Running = false
	s.Progress = 100
	if failure != "" {
		s.Status = failure
		s.Logs = appendLog(s.Logs, "[ERROR] "+failure)
	}
	return s
}

// Reduce folds one event into the state and returns the next state. It is
// pure: the input state is not mutated, and slices are copied on append so
// previously published snapshots stay frozen.
func Reduce(s RunState, evt *stream.Event) RunState {
	switch evt.Type {
	case stream.EventStatus:
		s.Status = evt.Message
		s.Logs = appendLog(s.Logs, "[STATUS] "+evt.Message)

	case stream.EventProgress:
		// Literal field assignment, not a merge: an absent message clears
		// the status.
		s.Progress = evt.Value
		s.CurrentSymbol = evt.CurrentSymbol
		s.Status = evt.Message

	case stream.EventMatchFound:
		if evt.Data == nil {
			break
		}
		trades := make([]stream.Trade, len(s.ValidTrades), len(s.ValidTrades)+1)
		copy(trades, s.ValidTrades)
		s.ValidTrades = append(trades, *evt.Data)
		s.Logs = appendLog(s.Logs, "[MATCH] Found "+evt.Data.Symbol)

	case stream.EventError:
		s.Logs = appendLog(s.Logs, "[ERROR] "+evt.Message)

	case stream.EventComplete:
		// The event's valid_trades list is received but not reconciled
		// into ValidTrades; see DESIGN.md.
		s.Logs = appendLog(s.Logs, fmt.Sprintf(
			"[COMPLETE] Backtest finished: %d valid, %d rejected",
			evt.ValidCount, evt.RejectedCount))
	}

	return s
}

func appendLog(logs []string, entry string) []string {
	out := make([]string, len(logs), len(logs)+1)
	copy(out, logs)
	return append(out, entry)
}
