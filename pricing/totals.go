package pricing

import "github.com/shopspring/decimal"

// Adjustments are the operator- and configuration-supplied inputs to a quote
type Adjustments struct {
	DiscountPercent decimal.Decimal // operator supplied, 0..100
	FlatDiscount    decimal.Decimal // fixed amount on top of the percentage, e.g. a promo code
	TaxRate         decimal.Decimal // fraction, e.g. 0.18
	DeliveryFee     decimal.Decimal
}

// Totals is a priced cart. Discount and Tax are rounded to paise when computed;
// Total is derived from the rounded parts so the stored invariant holds exactly.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Taxable     decimal.Decimal `json:"taxable"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// ValidateDiscountPercent rejects discounts outside [0, 100]
func ValidateDiscountPercent(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return invalid("discount_percent", "discount must be between 0 and 100")
	}
	return nil
}

// Quote prices a cart:
//
//	subtotal = Σ line values
//	discount = subtotal × pct / 100 + flat discount, never more than subtotal
//	tax      = (subtotal − discount) × tax rate
//	total    = subtotal − discount + tax + delivery fee
func Quote(c Cart, adj Adjustments) (Totals, error) {
	if c.IsEmpty() {
		return Totals{}, invalid("items", "cart is empty")
	}
	for _, l := range c.Lines {
		if err := l.Validate(); err != nil {
			return Totals{}, err
		}
	}
	if err := ValidateDiscountPercent(adj.DiscountPercent); err != nil {
		return Totals{}, err
	}
	if adj.FlatDiscount.IsNegative() {
		return Totals{}, invalid("flat_discount", "flat discount must not be negative")
	}
	if adj.TaxRate.IsNegative() {
		return Totals{}, invalid("tax_rate", "tax rate must not be negative")
	}
	if adj.DeliveryFee.IsNegative() {
		return Totals{}, invalid("delivery_fee", "delivery fee must not be negative")
	}

	subtotal := c.Subtotal()
	discount := Round2(subtotal.Mul(adj.DiscountPercent).Div(hundred)).Add(Round2(adj.FlatDiscount))
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	taxable := subtotal.Sub(discount)
	tax := Round2(taxable.Mul(adj.TaxRate))

	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		Taxable:     taxable,
		Tax:         tax,
		DeliveryFee: adj.DeliveryFee,
		Total:       taxable.Add(tax).Add(adj.DeliveryFee),
	}, nil
}
