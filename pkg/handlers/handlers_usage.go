package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/database"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultUsageDays = 30
	maxUsageDays     = 366
)

// UsageTotals sums a key's daily usage rows.
type UsageTotals struct {
	Requests int64 `json:"requests"`
	Bookings int64 `json:"bookings"`
	Covers   int64 `json:"covers"`
}

// UsageReport is a key's daily history over the last Days days.
type UsageReport struct {
	KeyID   uint                `json:"key_id"`
	Days    int                 `json:"days"`
	Since   string              `json:"since"`
	History []database.APIUsage `json:"usage_history"`
	Totals  UsageTotals         `json:"totals"`
}

// usageDays reads ?days=N, defaulting to 30.
func usageDays(c *gin.Context) (int, error) {
	s := c.Query("days")
	if s == "" {
		return defaultUsageDays, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxUsageDays {
		return 0, fmt.Errorf("days must be between 1 and %d", maxUsageDays)
	}
	return n, nil
}

// usageReport loads the rows dated on or after today minus days-1 and sums
// them in the database.
func (h *Handler) usageReport(keyID uint, days int) (UsageReport, error) {
	since := time.Now().AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	report := UsageReport{KeyID: keyID, Days: days, Since: since, History: []database.APIUsage{}}

	scope := h.DB.Model(&database.APIUsage{}).Where("key_id = ? AND date >= ?", keyID, since)
	if err := scope.Session(&gorm.Session{}).Order("date desc").Find(&report.History).Error; err != nil {
		return report, fmt.Errorf("load usage: %w", err)
	}
	err := scope.Session(&gorm.Session{}).
		Select("COALESCE(SUM(request_count), 0) AS requests, " +
			"COALESCE(SUM(total_bookings), 0) AS bookings, " +
			"COALESCE(SUM(total_covers), 0) AS covers").
		Scan(&report.Totals).Error
	if err != nil {
		return report, fmt.Errorf("sum usage: %w", err)
	}
	return report, nil
}

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	days, err := usageDays(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.usageReport(apiKey.ID, days)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":   apiKey.Name,
		"rate_limit": apiKey.RateLimit,
		"usage":      report,
	})
}

// GetUsage returns usage stats for any key
func (h *Handler) GetUsage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key id"})
		return
	}
	days, err := usageDays(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var key database.APIKey
	if err := h.DB.First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
			return
		}
		h.fail(c, err)
		return
	}

	report, err := h.usageReport(key.ID, days)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key_name": key.Name, "usage": report})
}
