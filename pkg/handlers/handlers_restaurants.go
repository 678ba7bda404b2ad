package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/arnavshah/restbook-api-go/pkg/report"
	"github.com/arnavshah/restbook-api-go/pkg/scheduler"
	"github.com/arnavshah/restbook-api-go/pkg/weektime"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateRestaurant stores a restaurant and returns its identifier
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var input models.Restaurant
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Store.CreateRestaurant(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListRestaurants returns every restaurant
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.Store.Restaurants(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

// GetRestaurant returns a single restaurant
func (h *Handler) GetRestaurant(c *gin.Context) {
	r, err := h.Store.Restaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateBooking books a table if the restaurant is open and has space
func (h *Handler) CreateBooking(c *gin.Context) {
	var input models.Booking
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ID = ""

	id, err := h.Store.CreateBooking(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.RecordUsage(c, 1, input.Covers)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListBookings returns a restaurant's bookings in the order they were made
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.Store.Bookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking returns a single booking
func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.Store.Booking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Availability checks a prospective booking without storing it
func (h *Handler) Availability(c *gin.Context) {
	var input models.Booking
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := input.Validate(); err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	r, err := h.Store.Restaurant(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	existing, err := h.Store.Bookings(ctx, r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	covering := scheduler.FulfillsTimes(r.OpeningHours, input.Start, input.Finish)
	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, models.AvailabilityResponse{
		Open:            len(covering) > 0,
		SpaceAvailable:  input.Covers > 0 && scheduler.SpaceAvailable(input, r.Tables, existing),
		CoveringPeriods: covering,
	})
}

// Seating returns the seating plan for a day, or for a window of the week
// containing that day when start and end are given
func (h *Handler) Seating(c *gin.Context) {
	date, err := queryDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end := report.DayWindow(date)
	if s := c.Query("start"); s != "" {
		if start, err = parseOffset(s); err != nil {
			h.fail(c, err)
			return
		}
	}
	if e := c.Query("end"); e != "" {
		if end, err = parseOffset(e); err != nil {
			h.fail(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	r, err := h.Store.Restaurant(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	bookings, err := h.Store.Bookings(ctx, r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	plan := scheduler.SeatingPlanWithin(date, start, end, r.Tables, bookings)
	h.RecordUsage(c, plan.Count(), 0)

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := report.WriteCSV(c.Writer, r.Tables, plan); err != nil {
			h.Logger.Warn("csv export failed", zap.String("restaurant_id", r.ID), zap.Error(err))
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Report renders the day report as plain text
func (h *Handler) Report(c *gin.Context) {
	date, err := queryDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	r, err := h.Store.Restaurant(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	bookings, err := h.Store.Bookings(ctx, r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.String(http.StatusOK, report.Generate(r, bookings, date))
}

// queryDate reads ?date=YYYY-MM-DD, defaulting to today.
func queryDate(c *gin.Context) (time.Time, error) {
	s := c.Query("date")
	if s == "" {
		y, m, d := time.Now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

// parseOffset accepts an integer offset or "DayName HH.MM".
func parseOffset(s string) (weektime.MinuteOffset, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return weektime.FromMinutes(n)
	}
	return weektime.Parse(s)
}
