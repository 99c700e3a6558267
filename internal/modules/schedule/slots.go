package schedule

import (
	"fmt"
	"time"
)

// SlotMinutes is the booking quantum. Every valid start time sits on a
// 20-minute grid inside the day's window.
const SlotMinutes = 20

// Windows in minutes since midnight. Standard days open late morning; Sunday
// runs a narrower morning-only window. Both ends name the last valid start,
// not the closing time.
const (
	weekdayFirstStart = 11 * 60    // 11:00
	weekdayLastStart  = 19*60 + 40 // 19:40
	sundayFirstStart  = 10 * 60    // 10:00
	sundayLastStart   = 12*60 + 40 // 12:40
)

// SlotsFor enumerates every valid appointment start time for the given
// calendar date ("2006-01-02"), ordered. An unparseable date yields an empty
// sequence; this package never returns errors.
func SlotsFor(date string) []string {
	first, last, ok := windowFor(date)
	if !ok {
		return []string{}
	}

	slots := make([]string, 0, (last-first)/SlotMinutes+1)
	for m := first; m <= last; m += SlotMinutes {
		slots = append(slots, formatMinutes(m))
	}
	return slots
}

// IsValid reports whether hhmm is exactly on the grid for the date's regime.
// Callers must re-check server-side: the grid the client UI rendered proves
// nothing about what the request actually carries.
func IsValid(date, hhmm string) bool {
	first, last, ok := windowFor(date)
	if !ok {
		return false
	}

	m, ok := parseMinutes(hhmm)
	if !ok {
		return false
	}
	if m < first || m > last {
		return false
	}
	return (m-first)%SlotMinutes == 0
}

// EndTime returns start plus one slot, wrapping past midnight (23:50 becomes
// 00:10). Plain minute arithmetic; no calendar types involved.
func EndTime(hhmm string) string {
	m, ok := parseMinutes(hhmm)
	if !ok {
		return ""
	}
	return formatMinutes((m + SlotMinutes) % (24 * 60))
}

func windowFor(date string) (first, last int, ok bool) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, 0, false
	}
	if day.Weekday() == time.Sunday {
		return sundayFirstStart, sundayLastStart, true
	}
	return weekdayFirstStart, weekdayLastStart, true
}

func parseMinutes(hhmm string) (int, bool) {
	var h, m int
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	if _, err := fmt.Sscanf(hhmm, "%2d:%2d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
