package stream

// Event type constants.
const (
	EventStatus     = "status"
	EventProgress   = "progress"
	EventMatchFound = "match_found"
	EventError      = "error"
	EventComplete   = "complete"
)

// Event represents a single NDJSON event pushed by the backtest server.
type Event struct {
	Type string `json:"type"`

	// Present on status, progress and error events.
	Message string `json:"message,omitempty"`

	// Progress fields.
	Value         float64 `json:"value,omitempty"`
	CurrentSymbol string  `json:"current_symbol,omitempty"`

	// Present on match_found events.
	Data *Trade `json:"data,omitempty"`

	// Present on complete events.
	ValidCount    int     `json:"valid_count,omitempty"`
	RejectedCount int     `json:"rejected_count,omitempty"`
	ValidTrades   []Trade `json:"valid_trades,omitempty"`
}

// Trade is a validated long setup reported by the server. Trades are
// append-only: once received they are never mutated or deduplicated.
type Trade struct {
	Symbol    string  `json:"symbol"`
	LTP       float64 `json:"ltp"`
	Close     float64 `json:"close"`
	StopLoss  float64 `json:"stop_loss"`
	Target    float64 `json:"target"`
	EMA9      float64 `json:"ema_9"`
	EMA20     float64 `json:"ema_20"`
	SpreadPct float64 `json:"spread_pct,omitempty"`
	IsMTF     bool    `json:"is_mtf,omitempty"`
	IsStage2  bool    `json:"is_stage2,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// RejectedTrade is a signal the server discarded during validation.
// No event currently carries one; the type exists so the state model
// matches the server's domain.
type RejectedTrade struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// knownTypes is the set of event tags the client understands.
var knownTypes = map[string]bool{
	EventStatus:     true,
	EventProgress:   true,
	EventMatchFound: true,
	EventError:      true,
	EventComplete:   true,
}
