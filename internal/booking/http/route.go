package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	bookings := g.Group("/bookings")
	{
		bookings.GET("", h.List)
		bookings.POST("", h.Create)
		bookings.DELETE("/:id", h.Delete)
	}

	g.GET("/availability", h.Availability)
	g.GET("/analytics", h.Analytics)
}
