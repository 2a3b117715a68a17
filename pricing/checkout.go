package pricing

import (
	"strings"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// WalkInCustomer is the contact name used when a counter sale has no named customer
const WalkInCustomer = "Walk-in Customer"

// Checkout carries everything besides the cart needed to finalize an order
type Checkout struct {
	OrderNumber     string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress models.Address
	PaymentMethod   string
	PaymentStatus   string
	DiscountPercent decimal.Decimal
	FlatDiscount    decimal.Decimal
	TaxRate         decimal.Decimal
	DeliveryFee     decimal.Decimal
	IsPOS           bool
	PromoCode       *string
	Notes           string
	ProfileID       *uint
}

// Validate checks the contact and payment fields
func (co Checkout) Validate() error {
	if strings.TrimSpace(co.CustomerName) == "" {
		return invalid("customer_name", "customer name is required")
	}
	if !co.IsPOS && strings.TrimSpace(co.CustomerPhone) == "" {
		return invalid("customer_phone", "customer phone is required for delivery orders")
	}
	if !models.ValidPaymentMethod(co.PaymentMethod) {
		return invalid("payment_method", "unsupported payment method %q", co.PaymentMethod)
	}
	return nil
}

// Finalize prices the cart and builds the order record.
// Counter (POS) orders carry no delivery fee and are created already delivered and paid.
func Finalize(c Cart, co Checkout) (models.Order, error) {
	if err := co.Validate(); err != nil {
		return models.Order{}, err
	}

	fee := co.DeliveryFee
	status := models.StatusPending
	paymentStatus := co.PaymentStatus
	if co.IsPOS {
		fee = decimal.Zero
		status = models.StatusDelivered
		paymentStatus = models.PaymentStatusPaid
	}
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusPending
	}

	totals, err := Quote(c, Adjustments{
		DiscountPercent: co.DiscountPercent,
		FlatDiscount:    co.FlatDiscount,
		TaxRate:         co.TaxRate,
		DeliveryFee:     fee,
	})
	if err != nil {
		return models.Order{}, err
	}
	if !totals.Total.IsPositive() {
		return models.Order{}, invalid("total_amount", "order total must be greater than zero")
	}

	items := make([]models.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, models.OrderItem{
			ItemID:        l.Item.ID,
			Type:          l.Item.Type,
			Name:          l.Item.Name,
			UnitPrice:     l.Item.UnitPrice,
			Quantity:      l.Quantity,
			LineTotal:     LineValue(l),
			Attributes:    l.Attributes,
			Customization: l.Customization,
			ComboItems:    l.ComboItems,
		})
	}

	return models.Order{
		OrderNumber:     co.OrderNumber,
		CustomerName:    strings.TrimSpace(co.CustomerName),
		CustomerPhone:   strings.TrimSpace(co.CustomerPhone),
		DeliveryAddress: datatypes.NewJSONType(co.DeliveryAddress),
		Items:           items,
		Subtotal:        totals.Subtotal,
		DiscountAmount:  totals.Discount,
		TaxAmount:       totals.Tax,
		DeliveryFee:     totals.DeliveryFee,
		TotalAmount:     totals.Total,
		PaymentMethod:   co.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          status,
		IsPOS:           co.IsPOS,
		PromoCode:       co.PromoCode,
		Notes:           co.Notes,
		ProfileID:       co.ProfileID,
	}, nil
}
