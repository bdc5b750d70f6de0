package devserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashbinbiju/SwingScanner/internal/api"
	"github.com/Ashbinbiju/SwingScanner/internal/stream"
)

func startBacktest(t *testing.T, srv *httptest.Server, date string) []*stream.Event {
	t.Helper()
	body, err := api.New(srv.URL).StartBacktest(context.Background(), date)
	require.NoError(t, err)
	t.Cleanup(func() { _ = body.Close() })

	p := stream.NewParser(body)
	var events []*stream.Event
	for {
		evt, err := p.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		require.NoError(t, err)
		events = append(events, evt)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(Handler(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ok"`)
}

func TestRunBacktestRejectsMissingDate(t *testing.T) {
	srv := httptest.NewServer(Handler(nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/run-backtest", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck // test cleanup
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSyntheticRunShape(t *testing.T) {
	symbols := []string{"RELIANCE", "TCS", "INFY", "SBIN"}
	srv := httptest.NewServer(Handler(&Options{Symbols: symbols}))
	defer srv.Close()

	events := startBacktest(t, srv, "2026-01-01")
	require.NotEmpty(t, events)

	assert.Equal(t, stream.EventStatus, events[0].Type)
	last := events[len(events)-1]
	require.Equal(t, stream.EventComplete, last.Type)
	assert.Equal(t, last.ValidCount, len(last.ValidTrades))
	assert.Equal(t, len(symbols), last.ValidCount+last.RejectedCount)

	var progress, matches int
	for _, evt := range events {
		switch evt.Type {
		case stream.EventProgress:
			progress++
		case stream.EventMatchFound:
			matches++
			require.NotNil(t, evt.Data)
			assert.NotEmpty(t, evt.Data.Symbol)
			assert.Positive(t, evt.Data.LTP)
		}
	}
	assert.Equal(t, len(symbols), progress, "one progress event per symbol")
	assert.Equal(t, last.ValidCount, matches)
}

func TestSyntheticRunIsDeterministicPerDate(t *testing.T) {
	srv := httptest.NewServer(Handler(nil))
	defer srv.Close()

	a := startBacktest(t, srv, "2026-01-01")
	b := startBacktest(t, srv, "2026-01-01")
	require.Equal(t, len(a), len(b))
	assert.Equal(t, a[len(a)-1].ValidCount, b[len(b)-1].ValidCount)
}

func TestReplayStreamsFileVerbatim(t *testing.T) {
	script := `{"type":"status","message":"recorded"}` + "\n" +
		`{"type":"match_found","data":{"symbol":"ITC","ltp":450,"close":440,"stop_loss":430,"target":470,"ema_9":445,"ema_20":441}}` + "\n" +
		`{"type":"complete","valid_count":1,"rejected_count":0}` + "\n"
	path := filepath.Join(t.TempDir(), "run.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	srv := httptest.NewServer(Handler(&Options{ReplayPath: path}))
	defer srv.Close()

	events := startBacktest(t, srv, "2026-01-01")
	require.Len(t, events, 3)
	assert.Equal(t, "recorded", events[0].Message)
	require.NotNil(t, events[1].Data)
	assert.Equal(t, "ITC", events[1].Data.Symbol)
}

func TestReplayMissingFileEmitsErrorEvent(t *testing.T) {
	srv := httptest.NewServer(Handler(&Options{ReplayPath: "/nonexistent/run.ndjson"}))
	defer srv.Close()

	events := startBacktest(t, srv, "2026-01-01")
	require.Len(t, events, 1)
	assert.Equal(t, stream.EventError, events[0].Type)
}
