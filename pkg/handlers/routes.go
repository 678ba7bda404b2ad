package handlers

import (
	"net/http"

	"github.com/arnavshah/restbook-api-go/pkg/logging"
	"github.com/gin-gonic/gin"
)

// Version is reported by the service banner.
const Version = "1.0.0"

// NewEngine builds a gin engine with request logging, panic recovery and
// every route registered.
func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinMiddleware(h.Logger), gin.Recovery())
	h.Register(r)
	return r
}

// Register mounts the public, admin and API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Restaurant Booking API",
			"version": Version,
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Booking Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/restaurants", h.CreateRestaurant)
		api.GET("/restaurants", h.ListRestaurants)
		api.GET("/restaurants/:id", h.GetRestaurant)
		api.POST("/restaurants/:id/bookings", h.CreateBooking)
		api.GET("/restaurants/:id/bookings", h.ListBookings)
		api.POST("/restaurants/:id/availability", h.Availability)
		api.GET("/restaurants/:id/seating", h.Seating)
		api.GET("/restaurants/:id/report", h.Report)
		api.GET("/bookings/:id", h.GetBooking)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}
}
