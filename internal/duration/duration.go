// Package duration converts between the ISO-8601 subset OpenProject uses
// for time fields (PT5H, PT2H30M, PT45M) and fractional hours.
package duration

import (
	"math"
	"strconv"
	"strings"
)

// Hours decodes a PT duration string into fractional hours, rounded to two
// decimal places. Any malformed input decodes to 0; callers never see an
// error for bad duration text.
func Hours(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "PT", "")
	if s == "" {
		return 0
	}

	hours := 0.0
	if i := strings.Index(s, "H"); i >= 0 {
		value, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0
		}
		hours += value
		s = s[i+1:]
	}
	if strings.Contains(s, "M") {
		value, err := strconv.ParseFloat(strings.ReplaceAll(s, "M", ""), 64)
		if err != nil {
			return 0
		}
		hours += value / 60
	}

	return Round2(hours)
}

// Format encodes fractional hours as the hour-only notation the API accepts
// on write, e.g. 2.5 -> "PT2.5H".
func Format(hours float64) string {
	return "PT" + strconv.FormatFloat(hours, 'f', -1, 64) + "H"
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
