package models

import "github.com/shopspring/decimal"

// ItemType identifies which catalog table an order line came from
type ItemType string

const (
	ItemProduct ItemType = "product"
	ItemCombo   ItemType = "combo"
	ItemAddOn   ItemType = "addon"
)

// Valid reports whether t is a known item type
func (t ItemType) Valid() bool {
	return t == ItemProduct || t == ItemCombo || t == ItemAddOn
}

// ChosenAttribute is a variation picked for a line, e.g. "Eggless" (+50)
type ChosenAttribute struct {
	Name      string          `json:"name"`
	ExtraCost decimal.Decimal `json:"extra_cost"`
}

// ComboSubItem is one product bundled inside a combo line
type ComboSubItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	SubTotal decimal.Decimal `json:"sub_total"`
}

// OrderItem is a line embedded in an order; it is a snapshot, not a foreign key
type OrderItem struct {
	ItemID        uint              `json:"item_id"`
	Type          ItemType          `json:"type"`
	Name          string            `json:"name"`
	UnitPrice     decimal.Decimal   `json:"unit_price"`
	Quantity      int               `json:"quantity"`
	LineTotal     decimal.Decimal   `json:"line_total"`
	Attributes    []ChosenAttribute `json:"attributes,omitempty"`
	Customization string            `json:"customization,omitempty"`
	ComboItems    []ComboSubItem    `json:"combo_items,omitempty"`
}
