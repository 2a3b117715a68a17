package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineRequest is a cart line as sent by the POS screen: a catalog reference, never a price
type LineRequest struct {
	Type          models.ItemType `json:"type" binding:"required"`
	ItemID        uint            `json:"item_id" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required,gt=0"`
	Attributes    []string        `json:"attributes"`
	Customization string          `json:"customization"`
}

// CatalogResolver turns line requests into priced cart lines using current catalog prices
type CatalogResolver struct {
	db *gorm.DB
}

// NewCatalogResolver creates a resolver reading from db
func NewCatalogResolver(db *gorm.DB) *CatalogResolver {
	return &CatalogResolver{db: db}
}

// Resolve prices one line request
func (r *CatalogResolver) Resolve(ctx context.Context, req LineRequest) (pricing.CartLine, error) {
	if req.Quantity < 1 {
		return pricing.CartLine{}, NewValidationError("quantity", "quantity must be at least 1")
	}

	switch req.Type {
	case models.ItemProduct:
		return r.resolveProduct(ctx, req)
	case models.ItemCombo:
		return r.resolveCombo(ctx, req)
	case models.ItemAddOn:
		return r.resolveAddOn(ctx, req)
	}
	return pricing.CartLine{}, NewValidationError("type", fmt.Sprintf("unknown item type %q", req.Type))
}

// ResolveAll prices every line request into a cart
func (r *CatalogResolver) ResolveAll(ctx context.Context, reqs []LineRequest) (pricing.Cart, error) {
	var cart pricing.Cart
	for _, req := range reqs {
		line, err := r.Resolve(ctx, req)
		if err != nil {
			return pricing.Cart{}, err
		}
		if err := cart.Add(line); err != nil {
			return pricing.Cart{}, err
		}
	}
	return cart, nil
}

func (r *CatalogResolver) resolveProduct(ctx context.Context, req LineRequest) (pricing.CartLine, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, req.ItemID).Error; err != nil {
		return pricing.CartLine{}, storeErr("resolve product", err)
	}
	if !product.IsAvailable {
		return pricing.CartLine{}, NewValidationError("item_id", fmt.Sprintf("%s is not available", product.Name))
	}

	attrs := make([]models.ChosenAttribute, 0, len(req.Attributes))
	for _, name := range req.Attributes {
		attr, ok := product.FindAttribute(name)
		if !ok {
			return pricing.CartLine{}, NewValidationError("attributes", fmt.Sprintf("%s has no option %q", product.Name, name))
		}
		attrs = append(attrs, models.ChosenAttribute{Name: attr.Name, ExtraCost: attr.ExtraCost})
	}

	return pricing.CartLine{
		Item: pricing.CatalogItem{
			ID:        product.ID,
			Type:      models.ItemProduct,
			Name:      product.Name,
			UnitPrice: product.Price,
		},
		Quantity:      req.Quantity,
		Attributes:    attrs,
		Customization: req.Customization,
	}, nil
}

func (r *CatalogResolver) resolveCombo(ctx context.Context, req LineRequest) (pricing.CartLine, error) {
	if len(req.Attributes) > 0 {
		return pricing.CartLine{}, NewValidationError("attributes", "combos have no options")
	}

	var combo models.Combo
	if err := r.db.WithContext(ctx).First(&combo, req.ItemID).Error; err != nil {
		return pricing.CartLine{}, storeErr("resolve combo", err)
	}
	if !combo.IsActive {
		return pricing.CartLine{}, NewValidationError("item_id", fmt.Sprintf("%s is not available", combo.Name))
	}

	ids := make([]uint, 0, len(combo.Components))
	for _, c := range combo.Components {
		ids = append(ids, c.ProductID)
	}
	prices := make(map[uint]decimal.Decimal, len(ids))
	if len(ids) > 0 {
		var products []models.Product
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
			return pricing.CartLine{}, storeErr("resolve combo products", err)
		}
		for _, p := range products {
			prices[p.ID] = p.Price
		}
	}

	subItems := make([]models.ComboSubItem, 0, len(combo.Components))
	for _, c := range combo.Components {
		subItems = append(subItems, models.ComboSubItem{
			Name:     c.Name,
			Quantity: c.Quantity,
			SubTotal: prices[c.ProductID].Mul(decimal.NewFromInt(int64(c.Quantity))),
		})
	}

	return pricing.CartLine{
		Item: pricing.CatalogItem{
			ID:        combo.ID,
			Type:      models.ItemCombo,
			Name:      combo.Name,
			UnitPrice: combo.Price,
		},
		Quantity:      req.Quantity,
		Customization: req.Customization,
		ComboItems:    subItems,
	}, nil
}

func (r *CatalogResolver) resolveAddOn(ctx context.Context, req LineRequest) (pricing.CartLine, error) {
	if len(req.Attributes) > 0 {
		return pricing.CartLine{}, NewValidationError("attributes", "add-ons have no options")
	}

	var addOn models.AddOn
	if err := r.db.WithContext(ctx).First(&addOn, req.ItemID).Error; err != nil {
		return pricing.CartLine{}, storeErr("resolve add-on", err)
	}
	if !addOn.IsAvailable {
		return pricing.CartLine{}, NewValidationError("item_id", fmt.Sprintf("%s is not available", addOn.Name))
	}

	return pricing.CartLine{
		Item: pricing.CatalogItem{
			ID:        addOn.ID,
			Type:      models.ItemAddOn,
			Name:      addOn.Name,
			UnitPrice: addOn.Price,
		},
		Quantity:      req.Quantity,
		Customization: req.Customization,
	}, nil
}
