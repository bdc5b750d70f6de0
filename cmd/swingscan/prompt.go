package main

import (
	"time"

	"github.com/charmbracelet/huh"

	"github.com/Ashbinbiju/SwingScanner/internal/api"
)

const customSentinel = "_custom_"

// promptDate asks for the trading date when --date was not given: a pick
// from recent weekdays, or free-text entry.
func promptDate(now time.Time) (string, error) {
	opts := make([]huh.Option[string], 0, 6)
	for _, d := range recentWeekdays(now, 5) {
		opts = append(opts, huh.NewOption(d.Format("Mon, 02 Jan 2006"), d.Format(time.DateOnly)))
	}
	opts = append(opts, huh.NewOption("Another date…", customSentinel))

	var date string
	sel := huh.NewSelect[string]().
		Title("Trading date to backtest").
		Options(opts...).
		Value(&date)
	if err := sel.Run(); err != nil {
		return "", err //nolint:wrapcheck // prompt error is already descriptive
	}

	if date != customSentinel {
		return date, nil
	}

	input := huh.NewInput().
		Title("Trading date (YYYY-MM-DD)").
		Validate(api.ValidateDate).
		Value(&date)
	if err := input.Run(); err != nil {
		return "", err //nolint:wrapcheck // prompt error is already descriptive
	}
	return date, nil
}

// recentWeekdays returns the n most recent weekdays ending today, newest
// first. Exchange holidays are not filtered; the server decides whether a
// date has signals.
func recentWeekdays(now time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := now
	for len(days) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return days
}
