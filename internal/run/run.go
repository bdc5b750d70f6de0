// Package run orchestrates one backtest invocation: it opens the event
// stream and drives framing, parsing and state reduction, publishing a
// snapshot after every event.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	logfile "github.com/Ashbinbiju/SwingScanner/internal/log"
	"github.com/Ashbinbiju/SwingScanner/internal/state"
	"github.com/Ashbinbiju/SwingScanner/internal/stream"
)

// ErrRunInProgress is returned when a run is started while another is
// still consuming its stream.
var ErrRunInProgress = errors.New("a backtest run is already in progress")

// Starter opens the event stream for one backtest. The production
// implementation is api.Client.
type Starter interface {
	StartBacktest(ctx context.Context, date string) (io.ReadCloser, error)
}

// Options configures a single run.
type Options struct {
	Date    string
	LogsDir string // empty disables the raw stream log
}

// Runner executes backtest runs one at a time. Each run owns a fresh
// RunState; nothing carries over between runs.
type Runner struct {
	starter  Starter
	onUpdate func(state.RunState)

	mu     sync.Mutex
	active bool
}

// New creates a Runner. onUpdate receives every published snapshot and may
// be nil; it is called synchronously from the run loop, in event order.
func New(starter Starter, onUpdate func(state.RunState)) *Runner {
	return &Runner{starter: starter, onUpdate: onUpdate}
}

// Run executes one backtest and returns the final state. Whatever ends the
// stream — a complete event, EOF, or a transport failure — the returned
// state has Running=false and Progress=100, and the stream body is closed.
func (r *Runner) Run(ctx context.Context, opts *Options) (state.RunState, error) {
	if err := r.acquire(); err != nil {
		return state.RunState{}, err
	}
	defer r.release()

	s := state.NewRun()
	r.publish(s)

	body, err := r.starter.StartBacktest(ctx, opts.Date)
	if err != nil {
		s = s.Finish(failureStatus(err))
		r.publish(s)
		return s, err
	}
	defer body.Close() //nolint:errcheck // read side of a finished stream

	var rc io.Reader = body
	if opts.LogsDir != "" {
		lw, err := logfile.New(opts.LogsDir, opts.Date)
		if err != nil {
			log.Warn().Err(err).Msg("stream log disabled")
		} else {
			defer lw.Close() //nolint:errcheck // best-effort log flush
			rc = io.TeeReader(body, lw)
			log.Debug().Str("path", lw.Path()).Msg("stream log opened")
		}
	}

	parser := stream.NewParser(rc)
	for {
		evt, err := parser.Next()
		if errors.Is(err, io.EOF) {
			s = s.Finish("")
			r.publish(s)
			return s, nil
		}
		if err != nil {
			s = s.Finish(failureStatus(err))
			r.publish(s)
			return s, err
		}

		s = state.Reduce(s, evt)
		if evt.Type == stream.EventComplete && evt.ValidCount != len(s.ValidTrades) {
			log.Debug().
				Int("streamed", len(s.ValidTrades)).
				Int("reported", evt.ValidCount).
				Msg("complete event count differs from streamed matches")
		}
		r.publish(s)
	}
}

func (r *Runner) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return ErrRunInProgress
	}
	r.active = true
	return nil
}

func (r *Runner) release() {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
}

func (r *Runner) publish(s state.RunState) {
	if r.onUpdate != nil {
		r.onUpdate(s)
	}
}

func failureStatus(err error) string {
	return fmt.Sprintf("Backtest failed: %v", err)
}
