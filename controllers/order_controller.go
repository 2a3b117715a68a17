package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents an order arriving from a delivery channel
type CreateOrderRequest struct {
	CustomerName    string                 `json:"customer_name" binding:"required"`
	CustomerPhone   string                 `json:"customer_phone" binding:"required"`
	DeliveryAddress models.Address         `json:"delivery_address"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	PaymentStatus   string                 `json:"payment_status"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
	PromoCode       string                 `json:"promo_code"`
	Notes           string                 `json:"notes"`
	ProfileID       *uint                  `json:"profile_id"`
	Items           []services.LineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest represents the request body for changing an order's status
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// AssignPartnerRequest represents the request body for sending an order out for delivery
type AssignPartnerRequest struct {
	DeliveryPartnerID uint `json:"delivery_partner_id" binding:"required"`
}

// OrderView is an order together with the actions the admin UI offers for it
type OrderView struct {
	models.Order
	NextStatus       *models.OrderStatus `json:"next_status"`
	CanAssignPartner bool                `json:"can_assign_partner"`
}

func newOrderView(order models.Order) OrderView {
	view := OrderView{Order: order, CanAssignPartner: order.CanAssignPartner()}
	if next, ok := order.Status.Next(); ok {
		view.NextStatus = &next
	}
	return view
}

func orderService(c *gin.Context) (*services.OrderService, bool) {
	svc := services.GetOrderService()
	if svc == nil {
		respondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Order service is not configured")
		return nil, false
	}
	return svc, true
}

// ListOrders handles GET /api/v1/orders - newest first, filtered by status, is_pos and limit
func ListOrders(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	var filter services.OrderFilter
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.OrderStatus(raw)
		if !filter.Status.Valid() {
			respondValidation(c, "Invalid status", "unknown order status "+raw)
			return
		}
	}
	if filter.IsPOS, ok = queryBool(c, "is_pos"); !ok {
		return
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondValidation(c, "Invalid limit", "must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	orders, err := svc.Store().ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "ORDER", "list orders")
		return
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
		"count":   len(views),
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := svc.Store().GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "ORDER", "load order")
		return
	}
	respondData(c, http.StatusOK, newOrderView(order))
}

// CreateOrder handles POST /api/v1/orders - records a pending order from a delivery channel.
// Prices come from the catalog; a promo code use is counted before the order is stored.
func CreateOrder(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	cart, err := services.NewCatalogResolver(config.GetDB()).ResolveAll(ctx, req.Items)
	if err != nil {
		respondServiceError(c, err, "ITEM", "price order items")
		return
	}

	in := services.OnlineCheckout{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentStatus,
		DiscountPercent: req.DiscountPercent,
		Notes:           req.Notes,
		ProfileID:       req.ProfileID,
	}

	place := func(promo services.PromoQuote) (models.Order, error) {
		if promo.Promo.ID != 0 {
			in.PromoCode = &promo.Promo.Code
			in.PromoDiscount = promo.Discount
		}
		return svc.CreateOrder(ctx, cart, in)
	}

	var order models.Order
	if req.PromoCode != "" {
		order, err = services.NewPromoService(config.GetDB()).Apply(ctx, req.PromoCode, cart.Subtotal(), time.Now(), place)
	} else {
		order, err = place(services.PromoQuote{})
	}
	if err != nil {
		resource := "ORDER"
		if req.PromoCode != "" && errors.Is(err, services.ErrNotFound) {
			resource = "PROMO_CODE"
		}
		respondServiceError(c, err, resource, "create order")
		return
	}

	respondData(c, http.StatusCreated, newOrderView(order))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - any status may follow any other
func UpdateOrderStatus(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "ORDER", "update order status")
		return
	}
	respondData(c, http.StatusOK, newOrderView(order))
}

// AssignDeliveryPartner handles POST /api/v1/orders/:id/assign-partner
func AssignDeliveryPartner(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AssignPartnerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if _, err := svc.Store().GetOrder(ctx, id); err != nil {
		respondServiceError(c, err, "ORDER", "load order")
		return
	}
	if _, err := svc.Store().GetDeliveryPartner(ctx, req.DeliveryPartnerID); err != nil {
		respondServiceError(c, err, "DELIVERY_PARTNER", "load delivery partner")
		return
	}

	order, partner, err := svc.AssignDeliveryPartner(ctx, id, req.DeliveryPartnerID)
	if err != nil {
		respondServiceError(c, err, "ORDER", "assign delivery partner")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"order":            newOrderView(order),
		"delivery_partner": partner,
	})
}

// GetOrderReceipt handles GET /api/v1/orders/:id/receipt - printable HTML
func GetOrderReceipt(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := svc.Store().GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "ORDER", "load order")
		return
	}

	receipt, err := pricing.RenderReceipt(order)
	if err != nil {
		respondServiceError(c, err, "ORDER", "render receipt")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(receipt))
}
