package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"gorm.io/gorm"
)

// boolFilter narrows q on column when the query parameter is present
func boolFilter(c *gin.Context, q *gorm.DB, param, column string) (*gorm.DB, bool) {
	v, ok := queryBool(c, param)
	if !ok {
		return nil, false
	}
	if v != nil {
		q = q.Where(column+" = ?", *v)
	}
	return q, true
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return asValidation("name", "name is required")
	}
	return nil
}

// Categories serves /api/v1/categories
var Categories = resource[models.Category]{
	code:  "CATEGORY",
	label: "category",
	order: "sort_order ASC, name ASC",
	newItem: func() *models.Category {
		return &models.Category{IsActive: true}
	},
	validate: func(c *models.Category) error {
		return requireName(c.Name)
	},
	filter: func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
		return boolFilter(c, q, "active", "is_active")
	},
	image: func(c *models.Category) (key, url **string) {
		return &c.ImageS3Key, &c.ImageURL
	},
}

// Products serves /api/v1/products
var Products = resource[models.Product]{
	code:    "PRODUCT",
	label:   "product",
	order:   "name ASC",
	preload: []string{"Category"},
	newItem: func() *models.Product {
		return &models.Product{IsAvailable: true}
	},
	validate: func(p *models.Product) error {
		if err := requireName(p.Name); err != nil {
			return err
		}
		if p.Price.IsNegative() {
			return asValidation("price", "price must not be negative")
		}
		for _, attr := range p.Attributes {
			if strings.TrimSpace(attr.Name) == "" {
				return asValidation("attributes", "every attribute needs a name")
			}
			if attr.ExtraCost.IsNegative() {
				return asValidation("attributes", "extra cost of "+attr.Name+" must not be negative")
			}
		}
		return nil
	},
	keep: func(_, updated *models.Product) {
		updated.Category = nil
	},
	filter: func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
		if raw := c.Query("category_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				respondValidation(c, "Invalid category_id", "must be a positive integer")
				return nil, false
			}
			q = q.Where("category_id = ?", id)
		}
		return boolFilter(c, q, "available", "is_available")
	},
	image: func(p *models.Product) (key, url **string) {
		return &p.ImageS3Key, &p.ImageURL
	},
}

// Combos serves /api/v1/combos
var Combos = resource[models.Combo]{
	code:  "COMBO",
	label: "combo",
	order: "name ASC",
	newItem: func() *models.Combo {
		return &models.Combo{IsActive: true}
	},
	validate: func(c *models.Combo) error {
		if err := requireName(c.Name); err != nil {
			return err
		}
		if c.Price.IsNegative() {
			return asValidation("price", "price must not be negative")
		}
		if len(c.Components) == 0 {
			return asValidation("components", "a combo needs at least one product")
		}
		for _, comp := range c.Components {
			if comp.ProductID == 0 || comp.Quantity < 1 {
				return asValidation("components", "every component needs a product_id and a quantity of at least 1")
			}
		}
		return nil
	},
	filter: func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
		return boolFilter(c, q, "active", "is_active")
	},
	image: func(c *models.Combo) (key, url **string) {
		return &c.ImageS3Key, &c.ImageURL
	},
}

// AddOns serves /api/v1/addons
var AddOns = resource[models.AddOn]{
	code:  "ADDON",
	label: "add-on",
	order: "name ASC",
	newItem: func() *models.AddOn {
		return &models.AddOn{IsAvailable: true}
	},
	validate: func(a *models.AddOn) error {
		if err := requireName(a.Name); err != nil {
			return err
		}
		if a.Price.IsNegative() {
			return asValidation("price", "price must not be negative")
		}
		return nil
	},
	filter: func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
		return boolFilter(c, q, "available", "is_available")
	},
}

// DeliveryPartners serves /api/v1/delivery-partners
var DeliveryPartners = resource[models.DeliveryPartner]{
	code:  "DELIVERY_PARTNER",
	label: "delivery partner",
	order: "name ASC",
	newItem: func() *models.DeliveryPartner {
		return &models.DeliveryPartner{IsAvailable: true, IsActive: true}
	},
	validate: func(p *models.DeliveryPartner) error {
		if err := requireName(p.Name); err != nil {
			return err
		}
		if strings.TrimSpace(p.Phone) == "" {
			return asValidation("phone", "phone is required")
		}
		if p.Rating < 0 || p.Rating > 5 {
			return asValidation("rating", "rating must be between 0 and 5")
		}
		if p.TotalDeliveries < 0 {
			return asValidation("total_deliveries", "total deliveries must not be negative")
		}
		return nil
	},
	filter: func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
		q, ok := boolFilter(c, q, "available", "is_available")
		if !ok {
			return nil, false
		}
		return boolFilter(c, q, "active", "is_active")
	},
}

// PromoCodes serves /api/v1/promo-codes. Redemptions are counted by checkout, never by clients.
var PromoCodes = resource[models.PromoCode]{
	code:  "PROMO_CODE",
	label: "promo code",
	order: "code ASC",
	newItem: func() *models.PromoCode {
		return &models.PromoCode{IsActive: true}
	},
	validate: services.ValidatePromo,
	keep: func(stored, updated *models.PromoCode) {
		updated.UsedCount = stored.UsedCount
	},
	filter: func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
		return boolFilter(c, q, "active", "is_active")
	},
}

// Profiles serves /api/v1/profiles. Loyalty points change only through the loyalty endpoints.
var Profiles = resource[models.Profile]{
	code:  "PROFILE",
	label: "profile",
	order: "name ASC",
	newItem: func() *models.Profile {
		return &models.Profile{Role: models.RoleCustomer, IsActive: true}
	},
	validate: func(p *models.Profile) error {
		if err := requireName(p.Name); err != nil {
			return err
		}
		if !models.ValidRole(p.Role) {
			return asValidation("role", "role must be admin, staff or customer")
		}
		return nil
	},
	keep: func(stored, updated *models.Profile) {
		updated.LoyaltyPoints = stored.LoyaltyPoints
		updated.Auth0ID = stored.Auth0ID
	},
	filter: func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
		if role := c.Query("role"); role != "" {
			q = q.Where("role = ?", role)
		}
		if phone := c.Query("phone"); phone != "" {
			q = q.Where("phone = ?", phone)
		}
		return q, true
	},
}
