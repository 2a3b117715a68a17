package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/shopspring/decimal"
)

// PendingRefresher re-checks pending orders out of schedule
type PendingRefresher interface {
	Poll(ctx context.Context) error
}

// OrderServiceConfig carries the pricing constants applied to new orders
type OrderServiceConfig struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

// OrderService implements point-of-sale checkout and the order status workflow
type OrderService struct {
	store     OrderStore
	refresher PendingRefresher
	cfg       OrderServiceConfig
	log       *slog.Logger
	now       func() time.Time
}

var orderServiceInstance *OrderService

// NewOrderService creates an order service over store
func NewOrderService(store OrderStore, cfg OrderServiceConfig, log *slog.Logger) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	return &OrderService{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// InitOrderService creates the order service and registers it as the shared instance
func InitOrderService(store OrderStore, cfg OrderServiceConfig, log *slog.Logger) *OrderService {
	orderServiceInstance = NewOrderService(store, cfg, log)
	return orderServiceInstance
}

// GetOrderService returns the shared order service
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// SetOrderService sets the shared order service (primarily for testing)
func SetOrderService(s *OrderService) {
	orderServiceInstance = s
}

// SetPendingRefresher wires the pending-order poller so status changes take effect immediately
func (s *OrderService) SetPendingRefresher(r PendingRefresher) {
	s.refresher = r
}

// Store returns the underlying persistence gateway
func (s *OrderService) Store() OrderStore {
	return s.store
}

// TaxRate returns the configured tax rate as a fraction
func (s *OrderService) TaxRate() decimal.Decimal {
	return s.cfg.TaxRate
}

// POSCheckout is what the operator supplies at the counter besides the cart
type POSCheckout struct {
	CustomerName    string
	CustomerPhone   string
	PaymentMethod   string
	DiscountPercent decimal.Decimal
	Notes           string
	ProfileID       *uint
}

// OnlineCheckout is an order arriving from a delivery channel
type OnlineCheckout struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress models.Address
	PaymentMethod   string
	PaymentStatus   string
	DiscountPercent decimal.Decimal
	PromoCode       *string
	PromoDiscount   decimal.Decimal
	Notes           string
	ProfileID       *uint
}

// SubmitResult is a persisted order together with its printable receipt
type SubmitResult struct {
	Order   models.Order `json:"order"`
	Receipt string       `json:"receipt"`
}

// QuotePOS prices a cart with the operator's discount and the configured tax rate
func (s *OrderService) QuotePOS(cart pricing.Cart, discountPercent decimal.Decimal) (pricing.Totals, error) {
	return pricing.Quote(cart, pricing.Adjustments{
		DiscountPercent: discountPercent,
		TaxRate:         s.cfg.TaxRate,
	})
}

// SubmitPOSOrder finalizes and persists a counter sale. On success the cart is cleared and a
// receipt rendered; on any failure the cart is left exactly as it was so the operator can retry.
func (s *OrderService) SubmitPOSOrder(ctx context.Context, cart *pricing.Cart, in POSCheckout) (SubmitResult, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = pricing.WalkInCustomer
	}

	order, err := pricing.Finalize(*cart, pricing.Checkout{
		OrderNumber:     NewOrderNumber(PrefixPOS, s.now()),
		CustomerName:    name,
		CustomerPhone:   in.CustomerPhone,
		PaymentMethod:   in.PaymentMethod,
		DiscountPercent: in.DiscountPercent,
		TaxRate:         s.cfg.TaxRate,
		IsPOS:           true,
		Notes:           in.Notes,
		ProfileID:       in.ProfileID,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	created, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		s.log.Error("failed to submit POS order", "order_number", order.OrderNumber, "err", err)
		return SubmitResult{}, err
	}

	cart.Clear()
	s.log.Info("POS order submitted", "order_id", created.ID, "order_number", created.OrderNumber, "total", created.TotalAmount.StringFixed(2))

	receipt, err := pricing.RenderReceipt(created)
	if err != nil {
		s.log.Error("failed to render receipt", "order_id", created.ID, "err", err)
	}
	return SubmitResult{Order: created, Receipt: receipt}, nil
}

// CreateOrder records an order from a delivery channel in the pending state
func (s *OrderService) CreateOrder(ctx context.Context, cart pricing.Cart, in OnlineCheckout) (models.Order, error) {
	order, err := pricing.Finalize(cart, pricing.Checkout{
		OrderNumber:     NewOrderNumber(PrefixOnline, s.now()),
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   in.PaymentStatus,
		DiscountPercent: in.DiscountPercent,
		FlatDiscount:    in.PromoDiscount,
		TaxRate:         s.cfg.TaxRate,
		DeliveryFee:     s.cfg.DeliveryFee,
		PromoCode:       in.PromoCode,
		Notes:           in.Notes,
		ProfileID:       in.ProfileID,
	})
	if err != nil {
		return models.Order{}, err
	}

	created, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		s.log.Error("failed to create order", "order_number", order.OrderNumber, "err", err)
		return models.Order{}, err
	}

	s.refresh(ctx)
	return created, nil
}

// UpdateStatus sets any status from any status; the workflow order is a UI default, not a rule.
// Confirming an order re-checks pending orders so the alert stops once none are left.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, NewValidationError("status", "unknown order status "+string(status))
	}

	order, err := s.store.UpdateOrder(ctx, id, OrderUpdate{Status: &status})
	if err != nil {
		s.log.Error("failed to update order status", "order_id", id, "status", status, "err", err)
		return models.Order{}, err
	}

	s.log.Info("order status updated", "order_id", id, "status", status)
	if status == models.StatusConfirmed {
		s.refresh(ctx)
	}
	return order, nil
}

// AssignDeliveryPartner sends the order out for delivery with the given partner and marks the
// partner unavailable. Availability is not restored automatically when the order completes.
func (s *OrderService) AssignDeliveryPartner(ctx context.Context, orderID, partnerID uint) (models.Order, models.DeliveryPartner, error) {
	order, partner, err := s.store.AssignDeliveryPartner(ctx, orderID, partnerID)
	if err != nil {
		s.log.Error("failed to assign delivery partner", "order_id", orderID, "partner_id", partnerID, "err", err)
		return models.Order{}, models.DeliveryPartner{}, err
	}

	s.log.Info("delivery partner assigned", "order_id", orderID, "partner_id", partnerID)
	return order, partner, nil
}

func (s *OrderService) refresh(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.Poll(ctx); err != nil {
		s.log.Warn("pending order re-check failed", "err", err)
	}
}
