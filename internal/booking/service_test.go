package booking

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomly/resource-booking-backend/internal/availability"
	"github.com/roomly/resource-booking-backend/internal/pkg/timezone"
)

// memRepo is an in-memory Repository used to exercise the service's
// decision points without a database.
type memRepo struct {
	bookings     []*Booking
	nextID       int
	raceConflict bool // simulate losing the concurrent-insert race
}

func (m *memRepo) Create(_ context.Context, b *Booking) error {
	if m.raceConflict {
		return ErrTimeConflict
	}
	m.nextID++
	b.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.nextID)
	b.CreatedAt = time.Now().UTC()
	stored := *b
	m.bookings = append(m.bookings, &stored)
	return nil
}

func (m *memRepo) FindIntersecting(_ context.Context, resource string, windowStart, windowEnd time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range m.bookings {
		if b.Resource == resource && b.StartTime.Before(windowEnd) && b.EndTime.After(windowStart) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memRepo) ListEndingAfter(_ context.Context, t time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range m.bookings {
		if b.EndTime.After(t) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memRepo) ListAll(_ context.Context) ([]*Booking, error) {
	return m.bookings, nil
}

func (m *memRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	var filtered []*Booking
	for _, b := range m.bookings {
		if filter.Resource != "" && b.Resource != filter.Resource {
			continue
		}
		if filter.DayStart != nil && b.StartTime.Before(*filter.DayStart) {
			continue
		}
		if filter.DayEnd != nil && b.StartTime.After(*filter.DayEnd) {
			continue
		}
		filtered = append(filtered, b)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].StartTime.Before(filtered[j].StartTime) })

	total := len(filtered)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	offset := (filter.Page - 1) * filter.PageSize
	if offset > total {
		offset = total
	}
	end := offset + filter.PageSize
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	for i, b := range m.bookings {
		if b.ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func newTestService(repo Repository, now time.Time) Service {
	return &service{repo: repo, now: func() time.Time { return now }}
}

func seedBooking(t *testing.T, svc Service, resource, start, end string) *Booking {
	t.Helper()
	b, err := svc.Create(context.Background(), CreateRequest{
		Resource:    resource,
		StartTime:   start,
		EndTime:     end,
		RequestedBy: "seed@example.com",
	})
	require.NoError(t, err)
	return b
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "missing resource",
			req:     CreateRequest{StartTime: "2026-09-01T10:00:00", EndTime: "2026-09-01T11:00:00", RequestedBy: "a@b.c"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing requester",
			req:     CreateRequest{Resource: "Room A", StartTime: "2026-09-01T10:00:00", EndTime: "2026-09-01T11:00:00"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "unknown timezone",
			req:     CreateRequest{Resource: "Room A", StartTime: "2026-09-01T10:00:00", EndTime: "2026-09-01T11:00:00", RequestedBy: "a@b.c", Timezone: "Moon/Tycho"},
			wantErr: timezone.ErrInvalidTimezone,
		},
		{
			name:    "garbage start time",
			req:     CreateRequest{Resource: "Room A", StartTime: "tomorrow-ish", EndTime: "2026-09-01T11:00:00", RequestedBy: "a@b.c"},
			wantErr: timezone.ErrInvalidTimestamp,
		},
		{
			name:    "end before start",
			req:     CreateRequest{Resource: "Room A", StartTime: "2026-09-01T11:00:00", EndTime: "2026-09-01T10:00:00", RequestedBy: "a@b.c"},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "zero length interval",
			req:     CreateRequest{Resource: "Room A", StartTime: "2026-09-01T10:00:00", EndTime: "2026-09-01T10:00:00", RequestedBy: "a@b.c"},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "below minimum duration",
			req:     CreateRequest{Resource: "Room A", StartTime: "2026-09-01T10:00:00", EndTime: "2026-09-01T10:14:00", RequestedBy: "a@b.c"},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "above maximum duration",
			req:     CreateRequest{Resource: "Room A", StartTime: "2026-09-01T10:00:00", EndTime: "2026-09-01T12:01:00", RequestedBy: "a@b.c"},
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&memRepo{}, time.Now())
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateDurationBounds(t *testing.T) {
	svc := newTestService(&memRepo{}, time.Now())

	// Both bounds are inclusive.
	seedBooking(t, svc, "Room A", "2026-09-01T10:00:00", "2026-09-01T10:15:00")
	seedBooking(t, svc, "Room B", "2026-09-01T10:00:00", "2026-09-01T12:00:00")
}

func TestCreateConflicts(t *testing.T) {
	newSeeded := func(t *testing.T) Service {
		svc := newTestService(&memRepo{}, time.Now())
		seedBooking(t, svc, "Room A", "2026-09-01T10:00:00", "2026-09-01T11:00:00")
		return svc
	}

	tests := []struct {
		name       string
		resource   string
		start, end string
		wantErr    error
	}{
		{
			name:     "fully nested interval",
			resource: "Room A",
			start:    "2026-09-01T10:05:00", end: "2026-09-01T10:50:00",
			wantErr: ErrTimeConflict,
		},
		{
			name:     "gap shorter than the buffer",
			resource: "Room A",
			start:    "2026-09-01T11:09:00", end: "2026-09-01T11:54:00",
			wantErr: ErrTimeConflict,
		},
		{
			name:     "straddles the start",
			resource: "Room A",
			start:    "2026-09-01T09:30:00", end: "2026-09-01T10:10:00",
			wantErr: ErrTimeConflict,
		},
		{
			name:     "gap of exactly one buffer",
			resource: "Room A",
			start:    "2026-09-01T11:10:00", end: "2026-09-01T11:55:00",
		},
		{
			name:     "gap of twice the buffer",
			resource: "Room A",
			start:    "2026-09-01T11:20:00", end: "2026-09-01T12:05:00",
		},
		{
			name:     "same interval on a different resource",
			resource: "Room B",
			start:    "2026-09-01T10:00:00", end: "2026-09-01T11:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSeeded(t)
			_, err := svc.Create(context.Background(), CreateRequest{
				Resource:    tt.resource,
				StartTime:   tt.start,
				EndTime:     tt.end,
				RequestedBy: "a@b.c",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateNormalizesToUTC(t *testing.T) {
	svc := newTestService(&memRepo{}, time.Now())

	b, err := svc.Create(context.Background(), CreateRequest{
		Resource:    "Room A",
		StartTime:   "2026-09-01T10:00:00",
		EndTime:     "2026-09-01T11:00:00",
		RequestedBy: "a@b.c",
		Timezone:    "Asia/Taipei", // UTC+8
	})
	require.NoError(t, err)

	assert.True(t, b.StartTime.Equal(time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC)))
	assert.True(t, b.EndTime.Equal(time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)))
	assert.NotEmpty(t, b.ID)
}

func TestCreateReportsStoreConflictIdentically(t *testing.T) {
	// The pre-check passes on an empty set, but the store rejects the
	// insert the way the exclusion constraint would for a race loser.
	svc := newTestService(&memRepo{raceConflict: true}, time.Now())

	_, err := svc.Create(context.Background(), CreateRequest{
		Resource:    "Room A",
		StartTime:   "2026-09-01T10:00:00",
		EndTime:     "2026-09-01T11:00:00",
		RequestedBy: "a@b.c",
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestListFiltersByCalendarDay(t *testing.T) {
	svc := newTestService(&memRepo{}, time.Now())

	// 2026-09-01 23:00 Taipei is already 2026-09-01 15:00 UTC;
	// 2026-09-02 07:00 Taipei is 2026-09-01 23:00 UTC.
	seedBooking(t, svc, "Room A", "2026-09-01T15:00:00", "2026-09-01T16:00:00")
	seedBooking(t, svc, "Room A", "2026-09-01T23:00:00", "2026-09-02T00:00:00")
	seedBooking(t, svc, "Room B", "2026-09-03T10:00:00", "2026-09-03T11:00:00")

	items, total, err := svc.List(context.Background(), ListRequest{
		Date:     "2026-09-02",
		Timezone: "Asia/Taipei",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)

	// Only the 23:00 UTC booking falls on Sep 2 in Taipei.
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.True(t, items[0].StartTime.Equal(time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)))

	_, _, err = svc.List(context.Background(), ListRequest{Date: "2026-09-02", Timezone: "Moon/Tycho"})
	assert.ErrorIs(t, err, timezone.ErrInvalidTimezone)
}

func TestDelete(t *testing.T) {
	svc := newTestService(&memRepo{}, time.Now())
	b := seedBooking(t, svc, "Room A", "2026-09-01T10:00:00", "2026-09-01T11:00:00")

	require.NoError(t, svc.Delete(context.Background(), b.ID))
	// Terminal removal: deleting again reports NotFound.
	assert.ErrorIs(t, svc.Delete(context.Background(), b.ID), ErrNotFound)
}

func TestAvailabilityOrchestration(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(&memRepo{}, now)

	seedBooking(t, svc, "Room A", "2026-09-01T10:00:00", "2026-09-01T11:00:00")
	seedBooking(t, svc, "Room A", "2026-09-01T13:00:00", "2026-09-01T14:00:00")
	// Already over by 09:00; must not influence the slots.
	seedBooking(t, svc, "Room B", "2026-09-01T07:00:00", "2026-09-01T08:00:00")

	slots, err := svc.Availability(context.Background(), now)
	require.NoError(t, err)

	want := []availability.Slot{
		{Title: "Available", Resource: "Room A", Start: now, End: now.Add(50 * time.Minute)},
		{Title: "Available", Resource: "Room A", Start: time.Date(2026, 9, 1, 11, 10, 0, 0, time.UTC), End: time.Date(2026, 9, 1, 12, 50, 0, 0, time.UTC)},
		{Title: "Available", Resource: availability.AnyResource, Start: time.Date(2026, 9, 1, 14, 10, 0, 0, time.UTC), End: time.Date(2026, 9, 1, 16, 10, 0, 0, time.UTC)},
	}
	assert.Equal(t, want, slots)
}

func TestAnalyticsOrchestration(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(&memRepo{}, now)

	seedBooking(t, svc, "Room A", "2026-09-01T14:00:00", "2026-09-01T15:00:00")
	seedBooking(t, svc, "Room A", "2026-09-02T14:00:00", "2026-09-02T15:00:00")
	seedBooking(t, svc, "Camera", "2026-09-03T09:00:00", "2026-09-03T10:00:00")

	summary, err := svc.Analytics(context.Background(), "")
	require.NoError(t, err)

	require.NotNil(t, summary.NextMeetingIn)
	assert.Equal(t, "In 6 hours", *summary.NextMeetingIn)
	assert.Equal(t, 1, summary.TotalToday)
	assert.Equal(t, 3, summary.TotalThisWeek)
	assert.Equal(t, 3, summary.TotalThisMonth)
	require.NotNil(t, summary.MostBookedResource)
	assert.Equal(t, "Room A", *summary.MostBookedResource)
	require.NotNil(t, summary.PeakHourRange)
	assert.Equal(t, "14:00 - 15:00", *summary.PeakHourRange)

	_, err = svc.Analytics(context.Background(), "Moon/Tycho")
	assert.ErrorIs(t, err, timezone.ErrInvalidTimezone)
}
