package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentWeekdaysSkipsWeekends(t *testing.T) {
	// Monday 2026-01-05
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	days := recentWeekdays(monday, 5)
	require.Len(t, days, 5)

	want := []string{"2026-01-05", "2026-01-02", "2026-01-01", "2025-12-31", "2025-12-30"}
	for i, d := range days {
		assert.Equal(t, want[i], d.Format(time.DateOnly))
		wd := d.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestRecentWeekdaysFromWeekend(t *testing.T) {
	// Sunday 2026-01-04 → most recent weekday is Friday the 2nd.
	sunday := time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)

	days := recentWeekdays(sunday, 2)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-01-02", days[0].Format(time.DateOnly))
	assert.Equal(t, "2026-01-01", days[1].Format(time.DateOnly))
}
