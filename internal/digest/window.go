package digest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/edgard/catchupbot/internal/database"
)

// Window is a time range ending now: "today" when Hours is zero, otherwise
// the last Hours hours.
type Window struct {
	Hours int
}

// Today is the start-of-day window.
var Today = Window{}

// LastHours returns a window covering the last n hours.
func LastHours(n int) Window {
	return Window{Hours: n}
}

// ParseWindow parses a command argument: "" or "today" is Today, a positive
// integer is LastHours. Anything else is ErrInvalidQuery.
func ParseWindow(arg string) (Window, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.EqualFold(arg, "today") {
		return Today, nil
	}
	hours, err := strconv.Atoi(arg)
	if err != nil || hours <= 0 {
		return Window{}, fmt.Errorf("%w: hours must be a positive integer, got %q", database.ErrInvalidQuery, arg)
	}
	return LastHours(hours), nil
}

// IsToday reports whether w is the start-of-day window.
func (w Window) IsToday() bool {
	return w.Hours == 0
}

// Since returns the window's lower bound relative to now in loc.
func (w Window) Since(now time.Time, loc *time.Location) time.Time {
	if w.IsToday() {
		if loc == nil {
			loc = time.Local
		}
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	}
	return now.Add(-time.Duration(w.Hours) * time.Hour)
}

// Label phrases the window as an adverbial that completes a sentence:
// "today", "in the last hour" or "in the last N hours".
func (w Window) Label() string {
	if w.IsToday() {
		return "today"
	}
	return "in the " + w.Span()
}

// Span names the window as a noun phrase for headers: "today",
// "last hour" or "last N hours".
func (w Window) Span() string {
	switch {
	case w.IsToday():
		return "today"
	case w.Hours == 1:
		return "last hour"
	default:
		return fmt.Sprintf("last %d hours", w.Hours)
	}
}
