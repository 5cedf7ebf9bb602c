package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomly/resource-booking-backend/internal/booking"
	"github.com/roomly/resource-booking-backend/internal/pkg/response"
	"github.com/roomly/resource-booking-backend/internal/pkg/timezone"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		Resource:    body.Resource,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		RequestedBy: body.RequestedBy,
		Timezone:    body.Timezone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// The service already validated the timezone name.
	loc, _ := timezone.LoadLocation(body.Timezone)
	c.JSON(http.StatusCreated, NewBookingResponse(b, loc))
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	loc, err := timezone.LoadLocation(req.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, total, err := h.service.List(c.Request.Context(), booking.ListRequest{
		Resource: req.Resource,
		Date:     req.Date,
		Timezone: req.Timezone,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b, loc)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	loc, err := timezone.LoadLocation(req.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}

	now := time.Now().UTC()
	if req.From != "" {
		now, err = timezone.Normalize(req.From, loc)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	slots, err := h.service.Availability(c.Request.Context(), now)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s, loc)
	}

	c.JSON(http.StatusOK, gin.H{"slots": items})
}

func (h *Handler) Analytics(c *gin.Context) {
	summary, err := h.service.Analytics(c.Request.Context(), c.Query("timezone"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
