package analytics

import (
	"fmt"
	"time"
)

// Booking is the minimal view of a stored booking the aggregator needs.
// Only start instants participate in analytics.
type Booking struct {
	Resource string
	Start    time.Time
}

// Summary holds usage counters derived from the full booking set.
// Nil pointer fields mean "not applicable" (no future booking, empty set).
type Summary struct {
	NextMeetingIn      *string `json:"nextMeetingIn"`
	TotalToday         int     `json:"totalToday"`
	TotalThisWeek      int     `json:"totalThisWeek"`
	TotalThisMonth     int     `json:"totalThisMonth"`
	MostBookedResource *string `json:"mostBookedResource"`
	PeakHourRange      *string `json:"peakHourRange"`
}

// Summarize computes usage analytics over the whole booking set. Calendar
// comparisons (day, week, month, hour of day) are evaluated in loc; weeks
// start on Sunday. Pure function: no I/O, input never mutated.
func Summarize(bookings []Booking, now time.Time, loc *time.Location) Summary {
	var s Summary

	if next, ok := nextStartAfter(bookings, now); ok {
		text := describeGap(now, next, loc)
		s.NextMeetingIn = &text
	}

	localNow := now.In(loc)
	weekStart := startOfWeek(localNow)

	resourceCounts := map[string]int{}
	var resourceOrder []string
	hourCounts := map[int]int{}
	var hourOrder []int

	for _, b := range bookings {
		start := b.Start.In(loc)

		if sameDay(start, localNow) {
			s.TotalToday++
		}
		if startOfWeek(start).Equal(weekStart) {
			s.TotalThisWeek++
		}
		if start.Year() == localNow.Year() && start.Month() == localNow.Month() {
			s.TotalThisMonth++
		}

		if _, seen := resourceCounts[b.Resource]; !seen {
			resourceOrder = append(resourceOrder, b.Resource)
		}
		resourceCounts[b.Resource]++

		hour := start.Hour()
		if _, seen := hourCounts[hour]; !seen {
			hourOrder = append(hourOrder, hour)
		}
		hourCounts[hour]++
	}

	// Ties go to whichever key was seen first, so the result is
	// deterministic for a given input ordering.
	if len(resourceOrder) > 0 {
		top := resourceOrder[0]
		for _, r := range resourceOrder[1:] {
			if resourceCounts[r] > resourceCounts[top] {
				top = r
			}
		}
		s.MostBookedResource = &top
	}

	if len(hourOrder) > 0 {
		top := hourOrder[0]
		for _, h := range hourOrder[1:] {
			if hourCounts[h] > hourCounts[top] {
				top = h
			}
		}
		rangeText := fmt.Sprintf("%d:00 - %d:00", top, top+1)
		s.PeakHourRange = &rangeText
	}

	return s
}

// nextStartAfter returns the earliest booking start strictly after now.
func nextStartAfter(bookings []Booking, now time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	for _, b := range bookings {
		if !b.Start.After(now) {
			continue
		}
		if !found || b.Start.Before(next) {
			next = b.Start
			found = true
		}
	}
	return next, found
}

// describeGap phrases the distance from now to target in the coarsest unit
// that applies: minutes under an hour, hours under a day, days under a week,
// weeks under four, months under a year, then years. Months and years follow
// the calendar in loc rather than a fixed number of days.
func describeGap(now, target time.Time, loc *time.Location) string {
	gap := target.Sub(now)

	if minutes := int(gap.Minutes()); minutes < 60 {
		return phrase(minutes, "minute")
	}
	if hours := int(gap.Hours()); hours < 24 {
		return phrase(hours, "hour")
	}
	days := int(gap.Hours()) / 24
	if days < 7 {
		return phrase(days, "day")
	}
	if weeks := days / 7; weeks < 4 {
		return phrase(weeks, "week")
	}
	months := wholeMonths(now.In(loc), target.In(loc))
	if months < 12 {
		return phrase(months, "month")
	}
	return phrase(months/12, "year")
}

func phrase(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("In 1 %s", unit)
	}
	return fmt.Sprintf("In %d %ss", n, unit)
}

// wholeMonths counts fully elapsed calendar months between now and target.
func wholeMonths(now, target time.Time) int {
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if months > 0 && now.AddDate(0, months, 0).After(target) {
		months--
	}
	return months
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// startOfWeek returns midnight of the Sunday beginning t's week.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(t.Weekday()))
}
