package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/middleware"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/shopspring/decimal"
)

// ReplaceCartRequest replaces the whole POS cart draft
type ReplaceCartRequest struct {
	Items []services.LineRequest `json:"items" binding:"dive"`
}

// CartQuantityRequest changes one line's quantity; zero removes the line
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// QuoteRequest prices either the given items or, when none are sent, the caller's draft
type QuoteRequest struct {
	Items           []services.LineRequest `json:"items" binding:"dive"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
}

// CheckoutRequest finalizes a counter sale. Without items the caller's draft is sold.
type CheckoutRequest struct {
	Items           []services.LineRequest `json:"items" binding:"dive"`
	CustomerName    string                 `json:"customer_name"`
	CustomerPhone   string                 `json:"customer_phone"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
	Notes           string                 `json:"notes"`
	ProfileID       *uint                  `json:"profile_id"`
}

// CartView is the draft cart as shown on the POS screen
type CartView struct {
	Lines             []pricing.CartLine `json:"lines"`
	ItemCount         int                `json:"item_count"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	SubtotalFormatted string             `json:"subtotal_formatted"`
}

// QuoteView is a priced cart with display strings for every amount
type QuoteView struct {
	pricing.Totals
	Formatted map[string]string `json:"formatted"`
}

func newCartView(cart pricing.Cart) CartView {
	lines := cart.Lines
	if lines == nil {
		lines = []pricing.CartLine{}
	}
	return CartView{
		Lines:             lines,
		ItemCount:         cart.ItemCount(),
		Subtotal:          cart.Subtotal(),
		SubtotalFormatted: pricing.FormatCurrency(cart.Subtotal()),
	}
}

func newQuoteView(t pricing.Totals) QuoteView {
	return QuoteView{
		Totals: t,
		Formatted: map[string]string{
			"subtotal":     pricing.FormatCurrency(t.Subtotal),
			"discount":     pricing.FormatCurrency(t.Discount),
			"tax":          pricing.FormatCurrency(t.Tax),
			"delivery_fee": pricing.FormatCurrency(t.DeliveryFee),
			"total":        pricing.FormatCurrency(t.Total),
		},
	}
}

// cartOwner identifies whose draft a request edits
func cartOwner(c *gin.Context) (string, bool) {
	owner, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return "", false
	}
	return owner, true
}

func cartDrafts(c *gin.Context) (services.CartDraftStore, bool) {
	drafts := services.GetCartDraftStore()
	if drafts == nil {
		respondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Cart storage is not configured")
		return nil, false
	}
	return drafts, true
}

func loadDraft(c *gin.Context) (services.CartDraftStore, string, pricing.Cart, bool) {
	owner, ok := cartOwner(c)
	if !ok {
		return nil, "", pricing.Cart{}, false
	}
	drafts, ok := cartDrafts(c)
	if !ok {
		return nil, "", pricing.Cart{}, false
	}
	cart, err := drafts.Load(c.Request.Context(), owner)
	if err != nil {
		respondServiceError(c, err, "CART", "load cart")
		return nil, "", pricing.Cart{}, false
	}
	return drafts, owner, cart, true
}

func saveDraft(c *gin.Context, drafts services.CartDraftStore, owner string, cart pricing.Cart) {
	if err := drafts.Save(c.Request.Context(), owner, cart); err != nil {
		respondServiceError(c, err, "CART", "save cart")
		return
	}
	respondData(c, http.StatusOK, newCartView(cart))
}

// cartFor resolves items against the catalog, or falls back to the caller's draft when items is empty
func cartFor(c *gin.Context, items []services.LineRequest) (pricing.Cart, bool, bool) {
	if len(items) > 0 {
		cart, err := services.NewCatalogResolver(config.GetDB()).ResolveAll(c.Request.Context(), items)
		if err != nil {
			respondServiceError(c, err, "ITEM", "price cart items")
			return pricing.Cart{}, false, false
		}
		return cart, false, true
	}
	_, _, cart, ok := loadDraft(c)
	return cart, true, ok
}

func lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondValidation(c, "Invalid index", "must be a non-negative integer")
		return 0, false
	}
	return index, true
}

// GetCart handles GET /api/v1/pos/cart
func GetCart(c *gin.Context) {
	_, _, cart, ok := loadDraft(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, newCartView(cart))
}

// ReplaceCart handles PUT /api/v1/pos/cart
func ReplaceCart(c *gin.Context) {
	var req ReplaceCartRequest
	if !bindJSON(c, &req) {
		return
	}
	owner, ok := cartOwner(c)
	if !ok {
		return
	}
	drafts, ok := cartDrafts(c)
	if !ok {
		return
	}

	cart, err := services.NewCatalogResolver(config.GetDB()).ResolveAll(c.Request.Context(), req.Items)
	if err != nil {
		respondServiceError(c, err, "ITEM", "price cart items")
		return
	}
	saveDraft(c, drafts, owner, cart)
}

// ClearCart handles DELETE /api/v1/pos/cart
func ClearCart(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		return
	}
	drafts, ok := cartDrafts(c)
	if !ok {
		return
	}
	if err := drafts.Delete(c.Request.Context(), owner); err != nil {
		respondServiceError(c, err, "CART", "clear cart")
		return
	}
	respondData(c, http.StatusOK, newCartView(pricing.Cart{}))
}

// AddCartItem handles POST /api/v1/pos/cart/items - identical selections are merged
func AddCartItem(c *gin.Context) {
	var req services.LineRequest
	if !bindJSON(c, &req) {
		return
	}
	drafts, owner, cart, ok := loadDraft(c)
	if !ok {
		return
	}

	line, err := services.NewCatalogResolver(config.GetDB()).Resolve(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "ITEM", "price cart item")
		return
	}
	if err := cart.Add(line); err != nil {
		respondServiceError(c, err, "CART", "add cart item")
		return
	}
	saveDraft(c, drafts, owner, cart)
}

// UpdateCartItem handles PATCH /api/v1/pos/cart/items/:index
func UpdateCartItem(c *gin.Context) {
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	var req CartQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	drafts, owner, cart, ok := loadDraft(c)
	if !ok {
		return
	}

	if err := cart.SetQuantity(index, *req.Quantity); err != nil {
		respondServiceError(c, err, "CART", "update cart item")
		return
	}
	saveDraft(c, drafts, owner, cart)
}

// RemoveCartItem handles DELETE /api/v1/pos/cart/items/:index
func RemoveCartItem(c *gin.Context) {
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	drafts, owner, cart, ok := loadDraft(c)
	if !ok {
		return
	}

	if err := cart.Remove(index); err != nil {
		respondServiceError(c, err, "CART", "remove cart item")
		return
	}
	saveDraft(c, drafts, owner, cart)
}

// QuoteCart handles POST /api/v1/pos/quote
func QuoteCart(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	var req QuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, _, ok := cartFor(c, req.Items)
	if !ok {
		return
	}

	totals, err := svc.QuotePOS(cart, req.DiscountPercent)
	if err != nil {
		respondServiceError(c, err, "CART", "quote cart")
		return
	}
	respondData(c, http.StatusOK, newQuoteView(totals))
}

// Checkout handles POST /api/v1/pos/checkout - persists a counter sale and returns its receipt.
// The draft is cleared only when it was the cart being sold and the order was stored.
func Checkout(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, fromDraft, ok := cartFor(c, req.Items)
	if !ok {
		return
	}

	result, err := svc.SubmitPOSOrder(c.Request.Context(), &cart, services.POSCheckout{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		PaymentMethod:   req.PaymentMethod,
		DiscountPercent: req.DiscountPercent,
		Notes:           req.Notes,
		ProfileID:       req.ProfileID,
	})
	if err != nil {
		respondServiceError(c, err, "ORDER", "submit order")
		return
	}

	if fromDraft {
		owner, _ := middleware.GetUserID(c)
		if drafts := services.GetCartDraftStore(); drafts != nil {
			if err := drafts.Delete(c.Request.Context(), owner); err != nil {
				slog.Warn("failed to clear cart draft", "owner", owner, "order_id", result.Order.ID, "err", err)
			}
		}
	}

	respondData(c, http.StatusCreated, gin.H{
		"order":   newOrderView(result.Order),
		"receipt": result.Receipt,
	})
}
