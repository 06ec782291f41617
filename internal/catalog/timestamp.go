package catalog

import (
	"fmt"
	"time"
)

// Timestamp keys look like 2025-09-01T14-30-00-500000: a capture instant
// formatted down to microseconds with every separator a dash, so that keys
// sort lexicographically in chronological order and stay filesystem-safe.
const keyTimeLayout = "2006-01-02T15-04-05"

// DateLayout is the calendar-date prefix shared by every file of one day.
const DateLayout = "2006-01-02"

// FormatTimestamp encodes an instant as a timestamp key.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s-%06d", t.Format(keyTimeLayout), t.Nanosecond()/1000)
}

// ParseTimestamp is the exact inverse of FormatTimestamp. The fractional
// part accepts one to six digits and is zero-padded on the right, so
// "...-5" means 500000 microseconds.
func ParseTimestamp(key string) (time.Time, error) {
	base := len(keyTimeLayout)
	if len(key) < base+2 || key[base] != '-' {
		return time.Time{}, fmt.Errorf("timestamp key %q: want %s-ffffff", key, keyTimeLayout)
	}

	t, err := time.Parse(keyTimeLayout, key[:base])
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp key %q: %w", key, err)
	}

	frac := key[base+1:]
	if len(frac) > 6 {
		return time.Time{}, fmt.Errorf("timestamp key %q: fraction longer than microseconds", key)
	}
	// Digits only: strconv would also admit a sign, which no canonical
	// key carries.
	micros := 0
	for i := 0; i < len(frac); i++ {
		if frac[i] < '0' || frac[i] > '9' {
			return time.Time{}, fmt.Errorf("timestamp key %q: bad fraction %q", key, frac)
		}
		micros = micros*10 + int(frac[i]-'0')
	}
	for i := len(frac); i < 6; i++ {
		micros *= 10
	}

	return t.Add(time.Duration(micros) * time.Microsecond), nil
}
