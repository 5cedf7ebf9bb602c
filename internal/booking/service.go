package booking

import (
	"context"
	"time"

	"github.com/roomly/resource-booking-backend/internal/analytics"
	"github.com/roomly/resource-booking-backend/internal/availability"
	"github.com/roomly/resource-booking-backend/internal/pkg/timezone"
)

// CreateRequest carries raw admission input. Timestamps arrive as strings
// because normalization (including the optional timezone) is part of the
// admission decision, not of request binding.
type CreateRequest struct {
	Resource    string
	StartTime   string
	EndTime     string
	RequestedBy string
	Timezone    string
}

// ListRequest carries listing input. Date is an optional calendar day
// ("2006-01-02") evaluated in the requested timezone.
type ListRequest struct {
	Resource string
	Date     string
	Timezone string
	Page     int
	PageSize int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	List(ctx context.Context, req ListRequest) ([]*Booking, int, error)
	Delete(ctx context.Context, id string) error
	Availability(ctx context.Context, now time.Time) ([]availability.Slot, error)
	Analytics(ctx context.Context, tz string) (analytics.Summary, error)
}

type service struct {
	repo Repository

	// now is swapped out in tests; defaults to time.Now.
	now func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// Create is the only path that produces a Booking. All validation happens
// before any store mutation; the conflict pre-check is a fast path and the
// store's exclusion constraint is the authoritative guard against races.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.Resource == "" || req.StartTime == "" || req.EndTime == "" || req.RequestedBy == "" {
		return nil, ErrMissingFields
	}

	loc, err := timezone.LoadLocation(req.Timezone)
	if err != nil {
		return nil, err
	}
	start, err := timezone.Normalize(req.StartTime, loc)
	if err != nil {
		return nil, err
	}
	end, err := timezone.Normalize(req.EndTime, loc)
	if err != nil {
		return nil, err
	}

	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}
	if d := end.Sub(start); d < MinDuration || d > MaxDuration {
		return nil, ErrInvalidDuration
	}

	conflict, err := s.hasConflict(ctx, req.Resource, start, end)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	b := &Booking{
		Resource:    req.Resource,
		RequestedBy: req.RequestedBy,
		StartTime:   start,
		EndTime:     end,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// hasConflict expands the candidate by the buffer on both sides and checks
// the store for same-resource bookings intersecting the expanded window.
func (s *service) hasConflict(ctx context.Context, resource string, start, end time.Time) (bool, error) {
	conflicts, err := s.repo.FindIntersecting(ctx, resource, start.Add(-Buffer), end.Add(Buffer))
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

func (s *service) List(ctx context.Context, req ListRequest) ([]*Booking, int, error) {
	filter := Filter{
		Resource: req.Resource,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	if req.Date != "" {
		loc, err := timezone.LoadLocation(req.Timezone)
		if err != nil {
			return nil, 0, err
		}
		dayStart, dayEnd, err := timezone.DayRange(req.Date, loc)
		if err != nil {
			return nil, 0, err
		}
		filter.DayStart = &dayStart
		filter.DayEnd = &dayEnd
	}

	return s.repo.List(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Availability(ctx context.Context, now time.Time) ([]availability.Slot, error) {
	bookings, err := s.repo.ListEndingAfter(ctx, now)
	if err != nil {
		return nil, err
	}

	input := make([]availability.Booking, len(bookings))
	for i, b := range bookings {
		input[i] = availability.Booking{
			Resource: b.Resource,
			Start:    b.StartTime,
			End:      b.EndTime,
		}
	}

	return availability.Slots(now, Buffer, input), nil
}

func (s *service) Analytics(ctx context.Context, tz string) (analytics.Summary, error) {
	loc, err := timezone.LoadLocation(tz)
	if err != nil {
		return analytics.Summary{}, err
	}

	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}

	input := make([]analytics.Booking, len(bookings))
	for i, b := range bookings {
		input[i] = analytics.Booking{Resource: b.Resource, Start: b.StartTime}
	}

	return analytics.Summarize(input, s.now(), loc), nil
}
