package pricing

import (
	"slices"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/shopspring/decimal"
)

// CatalogItem is the priced catalog entry a cart line refers to
type CatalogItem struct {
	ID        uint            `json:"id"`
	Type      models.ItemType `json:"type"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CartLine is one entry in a point-of-sale cart
type CartLine struct {
	Item          CatalogItem              `json:"item"`
	Quantity      int                      `json:"quantity"`
	Attributes    []models.ChosenAttribute `json:"attributes,omitempty"`
	Customization string                   `json:"customization,omitempty"`
	ComboItems    []models.ComboSubItem    `json:"combo_items,omitempty"`
}

// Cart is a draft order owned by whoever is editing it. The zero value is an empty cart.
// Mutators never write into the previous Lines array, so copies of a Cart stay intact.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Validate checks a single line
func (l CartLine) Validate() error {
	if !l.Item.Type.Valid() {
		return invalid("type", "unknown item type %q", l.Item.Type)
	}
	if l.Item.Name == "" {
		return invalid("name", "item name is required")
	}
	if l.Item.UnitPrice.IsNegative() {
		return invalid("unit_price", "unit price must not be negative")
	}
	if l.Quantity < 1 {
		return invalid("quantity", "quantity must be at least 1")
	}
	for _, attr := range l.Attributes {
		if attr.ExtraCost.IsNegative() {
			return invalid("attributes", "extra cost of %q must not be negative", attr.Name)
		}
	}
	return nil
}

// UnitValue is the unit price plus every chosen attribute's extra cost
func (l CartLine) UnitValue() decimal.Decimal {
	v := l.Item.UnitPrice
	for _, attr := range l.Attributes {
		v = v.Add(attr.ExtraCost)
	}
	return v
}

// LineValue is (unit price + Σ extra cost) × quantity
func LineValue(l CartLine) decimal.Decimal {
	return l.UnitValue().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// sameSelection reports whether two lines describe the same item configuration
func (l CartLine) sameSelection(other CartLine) bool {
	if l.Item.ID != other.Item.ID || l.Item.Type != other.Item.Type || l.Customization != other.Customization {
		return false
	}
	if len(l.Attributes) != len(other.Attributes) {
		return false
	}
	for i := range l.Attributes {
		if l.Attributes[i].Name != other.Attributes[i].Name || !l.Attributes[i].ExtraCost.Equal(other.Attributes[i].ExtraCost) {
			return false
		}
	}
	return true
}

// Add appends a line, or bumps the quantity of an identical existing line
func (c *Cart) Add(line CartLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	for i := range c.Lines {
		if c.Lines[i].sameSelection(line) {
			c.Lines = slices.Clone(c.Lines)
			c.Lines[i].Quantity += line.Quantity
			return nil
		}
	}
	c.Lines = append(slices.Clip(c.Lines), line)
	return nil
}

// SetQuantity changes a line's quantity; a quantity below 1 removes the line
func (c *Cart) SetQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.Lines) {
		return invalid("index", "no cart line at position %d", index)
	}
	if quantity < 1 {
		return c.Remove(index)
	}
	c.Lines = slices.Clone(c.Lines)
	c.Lines[index].Quantity = quantity
	return nil
}

// Remove drops the line at index
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return invalid("index", "no cart line at position %d", index)
	}
	c.Lines = slices.Concat(c.Lines[:index], c.Lines[index+1:])
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the total quantity across all lines
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of all line values
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(LineValue(l))
	}
	return total
}
