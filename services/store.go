package services

import (
	"context"

	"github.com/kendall-kelly/bakery-admin-api/models"
)

// OrderFilter narrows ListOrders and CountOrders
type OrderFilter struct {
	Status models.OrderStatus
	IsPOS  *bool
	Limit  int
}

// OrderUpdate is a partial update of an order; nil fields are left untouched
type OrderUpdate struct {
	Status            *models.OrderStatus
	PaymentStatus     *string
	DeliveryPartnerID *uint
	Notes             *string
}

// PartnerUpdate is a partial update of a delivery partner
type PartnerUpdate struct {
	IsAvailable     *bool
	IsActive        *bool
	TotalDeliveries *int
}

// OrderStore is the persistence gateway used by the order workflow and the pending poller.
// Errors are ErrNotFound, *ValidationError or *StoreError.
type OrderStore interface {
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	CountOrders(ctx context.Context, filter OrderFilter) (int64, error)
	GetOrder(ctx context.Context, id uint) (models.Order, error)
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	UpdateOrder(ctx context.Context, id uint, update OrderUpdate) (models.Order, error)
	GetDeliveryPartner(ctx context.Context, id uint) (models.DeliveryPartner, error)
	UpdateDeliveryPartner(ctx context.Context, id uint, update PartnerUpdate) (models.DeliveryPartner, error)

	// AssignDeliveryPartner moves the order out for delivery with the partner attached and
	// marks the partner unavailable. Both rows change or neither does.
	AssignDeliveryPartner(ctx context.Context, orderID, partnerID uint) (models.Order, models.DeliveryPartner, error)
}
