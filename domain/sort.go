package domain

import (
	"fmt"
	"strings"
	"time"
)

// SortMode selects the ordering and time window of the feed.
type SortMode string

const (
	SortRecent   SortMode = "recent"
	SortTopDay   SortMode = "top_day"
	SortTopWeek  SortMode = "top_week"
	SortTopMonth SortMode = "top_month"
	SortTopAll   SortMode = "top_all"
)

// SortModes lists every mode in tab order.
var SortModes = []SortMode{SortRecent, SortTopDay, SortTopWeek, SortTopMonth, SortTopAll}

// ParseSortMode accepts the mode names plus a few short aliases.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recent", "new":
		return SortRecent, nil
	case "top_day", "day", "24h":
		return SortTopDay, nil
	case "top_week", "week", "7d":
		return SortTopWeek, nil
	case "top_month", "month", "30d":
		return SortTopMonth, nil
	case "top_all", "top", "all":
		return SortTopAll, nil
	}
	return "", &ValidationError{Field: "sort", Err: fmt.Errorf("unknown sort mode %q", s)}
}

// Window is the lookback of the mode, zero when unbounded.
func (m SortMode) Window() time.Duration {
	switch m {
	case SortTopDay:
		return 24 * time.Hour
	case SortTopWeek:
		return 7 * 24 * time.Hour
	case SortTopMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// ByScore reports whether the mode orders by score before recency.
func (m SortMode) ByScore() bool { return m != SortRecent }

// Label is the short tab title.
func (m SortMode) Label() string {
	switch m {
	case SortTopDay:
		return "Top 24h"
	case SortTopWeek:
		return "Top 7d"
	case SortTopMonth:
		return "Top 30d"
	case SortTopAll:
		return "Top all"
	}
	return "Recent"
}

// Next cycles to the following mode.
func (m SortMode) Next() SortMode {
	for i, s := range SortModes {
		if s == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortRecent
}

// Prev cycles to the preceding mode.
func (m SortMode) Prev() SortMode {
	for i, s := range SortModes {
		if s == m {
			return SortModes[(i+len(SortModes)-1)%len(SortModes)]
		}
	}
	return SortRecent
}
