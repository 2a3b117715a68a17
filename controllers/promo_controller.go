package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/shopspring/decimal"
)

// ValidatePromoRequest checks a code against a subtotal, or against priced items when given
type ValidatePromoRequest struct {
	Code     string                 `json:"code" binding:"required"`
	Subtotal decimal.Decimal        `json:"subtotal"`
	Items    []services.LineRequest `json:"items" binding:"dive"`
}

// ValidatePromoCode handles POST /api/v1/promo-codes/validate
func ValidatePromoCode(c *gin.Context) {
	var req ValidatePromoRequest
	if !bindJSON(c, &req) {
		return
	}

	subtotal := req.Subtotal
	if len(req.Items) > 0 {
		cart, err := services.NewCatalogResolver(config.GetDB()).ResolveAll(c.Request.Context(), req.Items)
		if err != nil {
			respondServiceError(c, err, "ITEM", "price items")
			return
		}
		subtotal = cart.Subtotal()
	}
	if subtotal.IsNegative() {
		respondValidation(c, "Invalid subtotal", "subtotal must not be negative")
		return
	}

	quote, err := services.NewPromoService(config.GetDB()).Validate(c.Request.Context(), req.Code, subtotal, time.Now())
	if err != nil {
		respondServiceError(c, err, "PROMO_CODE", "check promo code")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"code":               quote.Promo.Code,
		"description":        quote.Promo.Description,
		"subtotal":           subtotal,
		"discount":           quote.Discount,
		"discount_formatted": pricing.FormatCurrency(quote.Discount),
	})
}
