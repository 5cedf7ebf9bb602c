package timezone

import (
	"net/http"
	"time"

	"github.com/roomly/resource-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidTimestamp = apperror.New(http.StatusBadRequest, "invalid timestamp format")
	ErrInvalidTimezone  = apperror.New(http.StatusBadRequest, "unknown timezone")
)

// Layouts accepted for timestamps that carry no UTC offset of their own.
// Offset-less values are interpreted in the caller's timezone.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// LoadLocation resolves an IANA timezone name. An empty name means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

// Normalize parses a wall-clock timestamp into an absolute UTC instant.
// RFC 3339 values keep their explicit offset; offset-less values are
// interpreted in loc. Everything downstream compares UTC instants only.
func Normalize(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range wallClockLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// FormatInZone renders an instant as RFC 3339 in the given zone.
// Output formatting only; never feed the result back into comparisons.
func FormatInZone(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

// DayRange returns the inclusive bounds of the calendar day named by date
// ("2006-01-02") in loc, as UTC instants.
func DayRange(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimestamp
	}
	start := day.UTC()
	end := day.AddDate(0, 0, 1).Add(-time.Nanosecond).UTC()
	return start, end, nil
}
