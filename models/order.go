package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus is the fulfillment status of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// AllStatuses returns every fulfillment status in workflow order
func AllStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the default follow-up status offered to operators.
// Delivered and cancelled orders have no default action.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusOutForDelivery, true
	case StatusOutForDelivery:
		return StatusDelivered, true
	}
	return "", false
}

// Payment methods and statuses accepted on orders
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentUPI    = "upi"
	PaymentOnline = "online"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// ValidPaymentMethod reports whether method is an accepted payment method
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentOnline:
		return true
	}
	return false
}

// Address is a delivery address. Text carries free-form addresses typed by staff.
type Address struct {
	Line1    string `json:"line1,omitempty"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
	Landmark string `json:"landmark,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Order represents a customer order, either placed online or entered at the counter
type Order struct {
	ID                uint                           `gorm:"primaryKey" json:"id"`
	OrderNumber       string                         `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerName      string                         `gorm:"not null" json:"customer_name"`
	CustomerPhone     string                         `json:"customer_phone"`
	DeliveryAddress   datatypes.JSONType[Address]    `json:"delivery_address"`
	Items             datatypes.JSONSlice[OrderItem] `gorm:"not null" json:"items"`
	Subtotal          decimal.Decimal                `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	TaxAmount         decimal.Decimal                `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	DeliveryFee       decimal.Decimal                `gorm:"type:numeric(12,2);not null" json:"delivery_fee"`
	DiscountAmount    decimal.Decimal                `gorm:"type:numeric(12,2);not null" json:"discount_amount"`
	TotalAmount       decimal.Decimal                `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentMethod     string                         `gorm:"not null" json:"payment_method"`
	PaymentStatus     string                         `gorm:"not null;default:'pending'" json:"payment_status"`
	Status            OrderStatus                    `gorm:"not null;default:'pending';index" json:"status"`
	DeliveryPartnerID *uint                          `gorm:"index" json:"delivery_partner_id"`
	DeliveryPartner   *DeliveryPartner               `gorm:"foreignKey:DeliveryPartnerID" json:"delivery_partner,omitempty"`
	IsPOS             bool                           `gorm:"not null;default:false" json:"is_pos"`
	PromoCode         *string                        `json:"promo_code,omitempty"`
	Notes             string                         `json:"notes,omitempty"`
	ProfileID         *uint                          `gorm:"index" json:"profile_id,omitempty"`
	CreatedAt         time.Time                      `json:"created_at"`
	UpdatedAt         time.Time                      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt                 `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// CanAssignPartner reports whether operators are offered partner assignment for this order
func (o Order) CanAssignPartner() bool {
	return (o.Status == StatusConfirmed || o.Status == StatusPreparing) && o.DeliveryPartnerID == nil
}
