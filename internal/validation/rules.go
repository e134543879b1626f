package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rules holds the business calendar used by the temporal checks.
// Times are minutes since midnight in Location.
type Rules struct {
	ClosedDays        []time.Weekday
	OpenTime          int
	CloseTime         int
	LastSeatingBuffer int
	Location          *time.Location
}

func DefaultRules() Rules {
	return Rules{
		ClosedDays:        []time.Weekday{time.Tuesday},
		OpenTime:          10*60 + 30,
		CloseTime:         22*60 + 30,
		LastSeatingBuffer: 60,
		Location:          time.Local,
	}
}

func (r Rules) LastSeating() int {
	return r.CloseTime - r.LastSeatingBuffer
}

func (r Rules) Closed(day time.Weekday) bool {
	for _, d := range r.ClosedDays {
		if d == day {
			return true
		}
	}
	return false
}

func (r Rules) validate() error {
	if r.OpenTime < 0 || r.CloseTime > 24*60 || r.OpenTime >= r.CloseTime {
		return fmt.Errorf("invalid opening hours %s-%s", FormatClock(r.OpenTime), FormatClock(r.CloseTime))
	}
	if r.LastSeatingBuffer < 0 || r.LastSeating() < r.OpenTime {
		return fmt.Errorf("last seating buffer %d leaves no service window", r.LastSeatingBuffer)
	}
	return nil
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWeekday accepts full or three-letter English day names and 0-6 (Sunday = 0).
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
