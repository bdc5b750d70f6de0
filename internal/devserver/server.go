// Package devserver is a stand-in for the real backtest backend: it
// serves POST /run-backtest as an NDJSON stream, either replaying a
// recorded run or improvising one over a fixed symbol list. It exists so
// the client can be developed and demoed without SmartAPI credentials.
package devserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/Ashbinbiju/SwingScanner/internal/stream"
)

// DefaultSymbols is the scripted watchlist when none is configured.
var DefaultSymbols = []string{
	"RELIANCE", "TCS", "INFY", "HDFCBANK", "SBIN", "TATAMOTORS", "ITC", "WIPRO",
}

// Options configures the dev server.
type Options struct {
	// ReplayPath streams a recorded .ndjson run verbatim instead of a
	// synthetic one.
	ReplayPath string
	// Symbols drive the synthetic run. Defaults to DefaultSymbols.
	Symbols []string
	// Interval is the pause between events, so the client's live view has
	// something to show. Zero means no pause.
	Interval time.Duration
}

// Handler builds the dev server routes.
func Handler(opts *Options) http.Handler {
	if opts == nil {
		opts = &Options{}
	}
	if len(opts.Symbols) == 0 {
		opts.Symbols = DefaultSymbols
	}

	r := mux.NewRouter()
	r.HandleFunc("/", handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/run-backtest", handleRunBacktest(opts)).Methods(http.MethodPost)
	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok","message":"swingscan dev backend running"}`) //nolint:errcheck // best-effort health body
}

func handleRunBacktest(opts *Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Date string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Date == "" {
			http.Error(w, "body must be {\"date\": \"YYYY-MM-DD\"}", http.StatusBadRequest)
			return
		}

		log.Info().Str("date", payload.Date).Bool("replay", opts.ReplayPath != "").Msg("backtest requested")

		w.Header().Set("Content-Type", "application/x-ndjson")
		emit := newEmitter(w, opts.Interval)

		if opts.ReplayPath != "" {
			replayRun(emit, opts.ReplayPath)
			return
		}
		syntheticRun(emit, payload.Date, opts.Symbols)
	}
}

// emitter writes one NDJSON line per call, flushing so the client sees
// events as they happen rather than at the end of the response.
type emitter struct {
	w        http.ResponseWriter
	flush    func()
	interval time.Duration
}

func newEmitter(w http.ResponseWriter, interval time.Duration) *emitter {
	flush := func() {}
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	return &emitter{w: w, flush: flush, interval: interval}
}

func (e *emitter) raw(line []byte) {
	e.w.Write(line)         //nolint:errcheck // client gone mid-stream is fine
	e.w.Write([]byte{'\n'}) //nolint:errcheck // same
	e.flush()
	if e.interval > 0 {
		time.Sleep(e.interval)
	}
}

func (e *emitter) event(evt *stream.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Msg("encoding event")
		return
	}
	e.raw(data)
}

func replayRun(e *emitter, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("opening replay file")
		e.event(&stream.Event{Type: stream.EventError, Message: fmt.Sprintf("replay: %v", err)})
		return
	}
	defer f.Close() //nolint:errcheck // read-only file

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		e.raw(sc.Bytes())
	}
	if err := sc.Err(); err != nil {
		log.Error().Err(err).Msg("reading replay file")
	}
}

func syntheticRun(e *emitter, date string, symbols []string) {
	e.event(&stream.Event{Type: stream.EventStatus,
		Message: fmt.Sprintf("Fetching signals for %s...", date)})
	e.event(&stream.Event{Type: stream.EventStatus,
		Message: fmt.Sprintf("Found %d raw signals. Starting analysis...", len(symbols))})

	var valid []stream.Trade
	rejected := 0
	total := len(symbols)

	for i, symbol := range symbols {
		e.event(&stream.Event{
			Type:          stream.EventProgress,
			Value:         float64(i+1) / float64(total) * 100,
			CurrentSymbol: symbol,
			Message:       fmt.Sprintf("Processing %s (%d/%d)...", symbol, i+1, total),
		})

		trade, ok := synthesizeTrade(symbol, date)
		if !ok {
			rejected++
			continue
		}
		valid = append(valid, trade)
		e.event(&stream.Event{Type: stream.EventMatchFound, Data: &trade})
	}

	e.event(&stream.Event{
		Type:          stream.EventComplete,
		ValidCount:    len(valid),
		RejectedCount: rejected,
		ValidTrades:   valid,
	})
}

// synthesizeTrade derives a deterministic fake setup from the symbol and
// date, valid for roughly half the watchlist so both outcomes show up.
func synthesizeTrade(symbol, date string) (stream.Trade, bool) {
	h := fnv.New32a()
	h.Write([]byte(symbol + date)) //nolint:errcheck // fnv never errors
	seed := h.Sum32()

	if seed%2 == 1 {
		return stream.Trade{}, false
	}

	base := 100 + float64(seed%4000)
	ltp := base * (1 + float64(seed%300)/10000) // up to +3%
	return stream.Trade{
		Symbol:    symbol,
		LTP:       round2(ltp),
		Close:     round2(base),
		StopLoss:  round2(base * 0.97),
		Target:    round2(base * 1.06),
		EMA9:      round2(base * 1.005),
		EMA20:     round2(base * 0.995),
		SpreadPct: round2(0.3 + float64(seed%90)/100),
		IsMTF:     seed%4 == 0,
		IsStage2:  true,
	}, true
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
