package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumberPrefix returns the per-day prefix, e.g. "EST-20250301-".
func NumberPrefix(day time.Time) string {
	return "EST-" + day.Format("20060102") + "-"
}

// NextNumber takes the highest numeric sequence among existing numbers that
// share the day's prefix and returns the following number. Suffixes that are
// not plain integers are ignored.
func NextNumber(day time.Time, existing []string) string {
	prefix := NumberPrefix(day)
	highest := 0
	for _, number := range existing {
		suffix, ok := strings.CutPrefix(number, prefix)
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(suffix)
		if err != nil || seq < 0 {
			continue
		}
		highest = max(highest, seq)
	}
	return fmt.Sprintf("%s%04d", prefix, highest+1)
}
