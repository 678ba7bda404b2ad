package handlers

import (
	"errors"
	"net/http"

	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks opening hours and tables without storing anything
func (h *Handler) ValidateInput(c *gin.Context) {
	var input struct {
		OpeningHours models.OpeningHours `json:"opening_hours"`
		Tables       []int               `json:"tables"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if err := models.ValidateTables(input.Tables); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	if err := input.OpeningHours.Validate(); err != nil {
		resp := gin.H{"valid": false, "error": err.Error()}
		var ie *models.IntervalError
		if errors.As(err, &ie) {
			resp["rule"] = ie.Rule.String()
			resp["period"] = ie.Index
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"period_count": len(input.OpeningHours),
			"table_count":  len(input.Tables),
		},
	})
}
