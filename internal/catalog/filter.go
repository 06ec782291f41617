package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day with no date attached, measured from midnight.
type Clock time.Duration

// ClockOf extracts the time-of-day component of an instant.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
	return Clock(d)
}

// ParseClock reads "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("clock %q: want HH:MM or HH:MM:SS", s)
	}
	var hms [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("clock %q: bad component %q", s, p)
		}
		hms[i] = v
	}
	if hms[0] > 23 || hms[1] > 59 || hms[2] > 59 {
		return 0, fmt.Errorf("clock %q: out of range", s)
	}
	return Clock(time.Duration(hms[0])*time.Hour +
		time.Duration(hms[1])*time.Minute +
		time.Duration(hms[2])*time.Second), nil
}

func (c Clock) String() string {
	d := time.Duration(c)
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// FilterByTimeRange restricts an index to the timestamps whose time of day
// falls inside [start, end], both ends inclusive. A start after end is an
// overnight range wrapping past midnight: t >= start or t <= end. Keys that
// fail to parse are excluded and counted in dropped rather than surfaced;
// the caller decides whether the count is worth logging.
func FilterByTimeRange(index FileIndex, start, end Clock) (FileIndex, int) {
	filtered := FileIndex{}
	dropped := 0

	for key, files := range index {
		t, err := ParseTimestamp(key)
		if err != nil {
			dropped++
			continue
		}
		c := ClockOf(t)

		var in bool
		if start <= end {
			in = start <= c && c <= end
		} else {
			in = c >= start || c <= end
		}
		if in {
			filtered[key] = files
		}
	}

	return filtered, dropped
}
