package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/services"
)

// AdjustLoyaltyRequest adds (positive) or redeems (negative) loyalty points
type AdjustLoyaltyRequest struct {
	Delta   int    `json:"delta" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
	OrderID *uint  `json:"order_id"`
}

// GetLoyalty handles GET /api/v1/profiles/:id/loyalty - balance and recent transactions
func GetLoyalty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondValidation(c, "Invalid limit", "must be a positive integer")
			return
		}
		limit = n
	}

	history, err := services.NewLoyaltyService(config.GetDB()).History(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, err, "PROFILE", "load loyalty history")
		return
	}

	var points int
	if err := config.GetDB().WithContext(c.Request.Context()).
		Table("profiles").Select("loyalty_points").Where("id = ?", id).Scan(&points).Error; err != nil {
		respondServiceError(c, err, "PROFILE", "load loyalty balance")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"profile_id":     id,
		"loyalty_points": points,
		"transactions":   history,
	})
}

// AdjustLoyalty handles POST /api/v1/profiles/:id/loyalty
func AdjustLoyalty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AdjustLoyaltyRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, txn, err := services.NewLoyaltyService(config.GetDB()).Adjust(c.Request.Context(), id, req.Delta, req.Reason, req.OrderID)
	if err != nil {
		respondServiceError(c, err, "PROFILE", "adjust loyalty points")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"profile":     profile,
		"transaction": txn,
	})
}
