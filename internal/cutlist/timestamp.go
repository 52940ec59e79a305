package cutlist

import (
	"fmt"
	"math"
)

const timestampLen = len("00:00:00.000")

// FormatTimestamp renders milliseconds as HH:MM:SS.mmm. NaN, infinities and
// negative values render as the empty string. Hours past 99 widen the field,
// and such labels do not parse back.
func FormatTimestamp(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		return ""
	}
	total := int64(math.Floor(ms))
	millis := total % 1000
	secs := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", secs/3600, (secs/60)%60, secs%60, millis)
}

// ParseTimestamp parses exactly HH:MM:SS.mmm into milliseconds.
func ParseTimestamp(s string) (int64, error) {
	if len(s) != timestampLen || s[2] != ':' || s[5] != ':' || s[8] != '.' {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableTimestamp, s)
	}
	fields := [4]int64{}
	for i, span := range [4][2]int{{0, 2}, {3, 5}, {6, 8}, {9, 12}} {
		var v int64
		for _, c := range s[span[0]:span[1]] {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("%w: %q", ErrUnparsableTimestamp, s)
			}
			v = v*10 + int64(c-'0')
		}
		fields[i] = v
	}
	hours, minutes, seconds, millis := fields[0], fields[1], fields[2], fields[3]
	if minutes >= 60 || seconds >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableTimestamp, s)
	}
	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}
