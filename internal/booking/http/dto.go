package http

import (
	"time"

	"github.com/roomly/resource-booking-backend/internal/availability"
	"github.com/roomly/resource-booking-backend/internal/booking"
	"github.com/roomly/resource-booking-backend/internal/pkg/request"
	"github.com/roomly/resource-booking-backend/internal/pkg/timezone"
)

// CreateBookingBody carries timestamps as strings: required-field and
// parse validation belong to the admission path, not the binder.
type CreateBookingBody struct {
	Resource    string `json:"resource"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	RequestedBy string `json:"requested_by"`
	Timezone    string `json:"timezone"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	Resource string `form:"resource"`
	Date     string `form:"date"`
	Timezone string `form:"timezone"`
}

// AvailabilityRequest defines query parameters for the availability view.
// From defaults to the current instant when omitted.
type AvailabilityRequest struct {
	From     string `form:"from"`
	Timezone string `form:"timezone"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	Resource    string    `json:"resource"`
	RequestedBy string    `json:"requested_by"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBookingResponse echoes a booking with its instants rendered in the
// caller's zone. Comparisons never use these strings.
func NewBookingResponse(b *booking.Booking, loc *time.Location) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		Resource:    b.Resource,
		RequestedBy: b.RequestedBy,
		StartTime:   timezone.FormatInZone(b.StartTime, loc),
		EndTime:     timezone.FormatInZone(b.EndTime, loc),
		CreatedAt:   b.CreatedAt,
	}
}

type SlotResponse struct {
	Title     string `json:"title"`
	Resource  string `json:"resource"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewSlotResponse(s availability.Slot, loc *time.Location) SlotResponse {
	return SlotResponse{
		Title:     s.Title,
		Resource:  s.Resource,
		StartTime: timezone.FormatInZone(s.Start, loc),
		EndTime:   timezone.FormatInZone(s.End, loc),
	}
}
