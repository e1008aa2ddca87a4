package transcode

import (
	"strconv"
	"strings"
)

// TimemarkToUnits converts a timemark such as "01:02:03.500000" into
// fractional minutes. Unknown ("N/A") and negative marks report false.
func TimemarkToUnits(timemark string) (float64, bool) {
	timemark = strings.TrimSpace(timemark)
	if timemark == "" || strings.HasPrefix(timemark, "-") {
		return 0, false
	}

	seconds := 0.0
	multiplier := 1.0
	parts := strings.Split(timemark, ":")
	if len(parts) > 3 {
		return 0, false
	}
	for i := len(parts) - 1; i >= 0; i-- {
		val, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || val < 0 {
			return 0, false
		}
		seconds += val * multiplier
		multiplier *= 60
	}

	return seconds / 60, true
}
