package booking

import (
	"net/http"
	"time"

	"github.com/roomly/resource-booking-backend/internal/pkg/apperror"
)

const (
	// Buffer is the mandatory handover gap enforced around every booking.
	// Two bookings on the same resource must be at least 2*Buffer apart.
	Buffer = 10 * time.Minute

	MinDuration = 15 * time.Minute
	MaxDuration = 120 * time.Minute
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "booking conflicts with an existing one")
	ErrMissingFields    = apperror.New(http.StatusBadRequest, "resource, start_time, end_time and requested_by are required")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "duration must be between 15 and 120 minutes")
)

// Booking is a confirmed reservation of a resource for a time interval.
// StartTime and EndTime are absolute UTC instants. A booking is immutable
// once created; the only lifecycle transition is deletion.
type Booking struct {
	ID          string
	Resource    string
	RequestedBy string
	StartTime   time.Time
	EndTime     time.Time
	CreatedAt   time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	Resource string
	DayStart *time.Time // inclusive lower bound on start_time
	DayEnd   *time.Time // inclusive upper bound on start_time
	Page     int
	PageSize int
}
