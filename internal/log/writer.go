package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Writer tees the raw NDJSON event stream of one run to a file, so a run
// can be inspected (or replayed against the dev server) after the fact.
type Writer struct {
	file *os.File
}

// New creates a stream log under logsDir for a backtest of the given
// trading date. The filename combines the trading date with the wall-clock
// start time so repeated runs for one date don't collide.
func New(logsDir, date string) (*Writer, error) {
	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.ndjson", date, time.Now().Format("20060102-150405"))
	path := filepath.Join(logsDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating stream log: %w", err)
	}

	return &Writer{file: f}, nil
}

// Path returns the path to the stream log.
func (w *Writer) Path() string {
	return w.file.Name()
}

// Write implements io.Writer, appending raw stream bytes.
func (w *Writer) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

// Close closes the stream log.
func (w *Writer) Close() error {
	return w.file.Close()
}
