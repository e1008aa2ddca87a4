package stream

import (
	"fmt"
	"math"
	"time"

	"github.com/sosodev/duration"
)

// localTimestamp is an ISO timestamp without an offset, read as local time.
const localTimestamp = "2006-01-02T15:04:05.999999999"

// PublishedDateToString converts an ISO timestamp to DD-MM-YYYY using the
// local calendar. A timestamp without an offset is taken as local time.
//
// Example:
//
//	PublishedDateToString("2021-03-05T10:00:00Z") // "05-03-2021"
func PublishedDateToString(published string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, published)
	if err != nil {
		var localErr error
		if t, localErr = time.ParseInLocation(localTimestamp, published, time.Local); localErr != nil {
			return "", fmt.Errorf("parse published date %q: %w", published, err)
		}
	}
	return t.Local().Format("02-01-2006"), nil
}

// DurationToUnits converts an ISO-8601 duration to fractional minutes:
// hours*60 + minutes + ceil(seconds)/60 (days count as 1440 minutes).
//
// Seconds are rounded up so that the progress indicator can reach, but
// never silently exceed, its total.
//
// Example:
//
//	DurationToUnits("PT1M1S") // 1.01666...
func DurationToUnits(iso string) (float64, error) {
	if iso == "" {
		return 0, fmt.Errorf("empty media duration")
	}

	d, err := duration.Parse(iso)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", iso, err)
	}
	if d.Negative || d.Years != 0 || d.Months != 0 || d.Weeks != 0 {
		return 0, fmt.Errorf("unsupported media duration %q", iso)
	}

	units := d.Days*24*60 + d.Hours*60 + d.Minutes + math.Ceil(d.Seconds)/60
	return units, nil
}
