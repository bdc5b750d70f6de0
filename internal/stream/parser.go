package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// ErrMissingType marks a line that parsed as JSON but carries no event tag.
var ErrMissingType = errors.New("event has no type")

// ParseLine decodes one NDJSON line into an Event. Malformed JSON, a
// missing tag, or an unknown tag is an error; the caller decides whether
// to abort or skip.
func ParseLine(line []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(line, &evt); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	if evt.Type == "" {
		return nil, ErrMissingType
	}
	if !knownTypes[evt.Type] {
		return nil, fmt.Errorf("unknown event type %q", evt.Type)
	}
	return &evt, nil
}

// readBufSize is the chunk size for stream reads.
const readBufSize = 32 * 1024

// Parser reads an NDJSON byte stream and emits Events. A line that fails
// to parse is reported to OnInvalid and skipped — one bad line never
// terminates a run.
type Parser struct {
	r      io.Reader
	framer *Framer
	buf    []byte
	lines  [][]byte
	eof    bool

	// OnInvalid receives each skipped line and its parse error. Left nil,
	// skipped lines are logged at warn level.
	OnInvalid func(line []byte, err error)
}

// NewParser creates a Parser that reads from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		r:      r,
		framer: NewFramer(),
		buf:    make([]byte, readBufSize),
	}
}

// Next returns the next valid event. It returns io.EOF when the stream is
// exhausted and the underlying read error if the transport fails. The read
// on the underlying stream is the only blocking point; everything else is
// synchronous per chunk.
func (p *Parser) Next() (*Event, error) {
	for {
		for len(p.lines) > 0 {
			line := p.lines[0]
			p.lines = p.lines[1:]
			if len(line) == 0 {
				continue
			}

			evt, err := ParseLine(line)
			if err != nil {
				p.diagnose(line, err)
				continue
			}
			return evt, nil
		}

		if p.eof {
			return nil, io.EOF
		}

		n, err := p.r.Read(p.buf)
		if n > 0 {
			p.lines = p.framer.Push(p.buf[:n])
		}
		if errors.Is(err, io.EOF) {
			// An unterminated tail may be a truncated event, so it is
			// dropped rather than emitted.
			p.framer.Close()
			p.eof = true
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}
	}
}

func (p *Parser) diagnose(line []byte, err error) {
	if p.OnInvalid != nil {
		p.OnInvalid(line, err)
		return
	}
	log.Warn().Err(err).Str("line", truncateLine(line)).Msg("skipping malformed event line")
}

func truncateLine(line []byte) string {
	const limit = 120
	if len(line) > limit {
		return string(line[:limit]) + "…"
	}
	return string(line)
}
