// Package period resolves named reporting windows ("last_30_days",
// "current_month", ...) into concrete date ranges.
package period

import (
	"fmt"
	"sort"
	"time"
)

// DefaultKey is used whenever no key, or an unknown key, is supplied.
const DefaultKey = "last_30_days"

// Period is an inclusive date range. Start and End are midnight of their day.
type Period struct {
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	LabelShort string    `json:"label_short"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// InvalidKeyError reports a key that does not name a known period.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid period key %q", e.Key)
}

// Clock returns the current time. Tests replace it to pin "today".
var Clock = time.Now

type definition struct {
	label      string
	labelShort string
	start      func(today time.Time) time.Time
}

var definitions = map[string]definition{
	"last_day": {"Last Day", "1D", func(d time.Time) time.Time { return d.AddDate(0, 0, -1) }},
	"current_week": {"Current Week", "WTD", func(d time.Time) time.Time {
		// Weeks start on Monday.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	}},
	"last_7_days": {"Last 7 Days", "7D", func(d time.Time) time.Time { return d.AddDate(0, 0, -7) }},
	"current_month": {"Current Month", "MTD", func(d time.Time) time.Time {
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	}},
	"last_30_days": {"Last 30 Days", "30D", func(d time.Time) time.Time { return d.AddDate(0, 0, -30) }},
	"last_90_days": {"Last 90 Days", "90D", func(d time.Time) time.Time { return d.AddDate(0, 0, -90) }},
	"current_year": {"Current Year", "YTD", func(d time.Time) time.Time {
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
	}},
	"last_365_days": {"Last 365 Days", "365D", func(d time.Time) time.Time { return d.AddDate(0, 0, -365) }},
	"last_5_years":  {"Last 5 Years", "5Y", func(d time.Time) time.Time { return d.AddDate(-5, 0, 0) }},
}

// displayOrder lists the keys from the shortest window to the longest.
var displayOrder = []string{
	"last_day", "current_week", "last_7_days", "current_month", "last_30_days",
	"last_90_days", "current_year", "last_365_days", "last_5_years",
}

// All returns every period ending today, shortest window first.
func All() []Period {
	out := make([]Period, 0, len(displayOrder))
	for _, k := range displayOrder {
		p, _ := FromKey(k)
		out = append(out, p)
	}
	return out
}

// Keys returns every known period key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(definitions))
	for k := range definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromKey builds the period named by key, ending today.
func FromKey(key string) (Period, error) {
	def, ok := definitions[key]
	if !ok {
		return Period{}, &InvalidKeyError{Key: key}
	}
	today := truncateDay(Clock())
	return Period{
		Key:        key,
		Label:      def.label,
		LabelShort: def.labelShort,
		Start:      def.start(today),
		End:        today,
	}, nil
}

// Last30Days is the default reporting window.
func Last30Days() Period {
	p, _ := FromKey(DefaultKey)
	return p
}

// Resolve returns the period for key, falling back to Last30Days when key is
// empty or unknown. The returned error is the *InvalidKeyError that caused
// the fallback, or nil; callers only use it for logging.
func Resolve(key string) (Period, error) {
	if key == "" {
		return Last30Days(), nil
	}
	p, err := FromKey(key)
	if err != nil {
		return Last30Days(), err
	}
	return p, nil
}

// Contains reports whether the calendar day of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.Start.Location())
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the number of calendar days covered, both ends included.
func (p Period) Days() int {
	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
