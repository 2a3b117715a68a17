package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category groups products on the menu
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `json:"description"`
	ImageS3Key  *string        `json:"image_s3_key"`
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // computed field, resolved from ImageS3Key
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// ProductAttribute is a variation a product can be ordered with, e.g. "1 kg" (+400)
type ProductAttribute struct {
	Name      string          `json:"name"`
	ExtraCost decimal.Decimal `json:"extra_cost"`
}

// Product is a single sellable item
type Product struct {
	ID          uint                                  `gorm:"primaryKey" json:"id"`
	Name        string                                `gorm:"not null" json:"name"`
	Description string                                `json:"description"`
	CategoryID  *uint                                 `gorm:"index" json:"category_id"`
	Category    *Category                             `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price       decimal.Decimal                       `gorm:"type:numeric(12,2);not null" json:"price"`
	Attributes  datatypes.JSONSlice[ProductAttribute] `json:"attributes"`
	ImageS3Key  *string                               `json:"image_s3_key"`
	ImageURL    *string                               `gorm:"-" json:"image_url,omitempty"`
	IsAvailable bool                                  `gorm:"not null" json:"is_available"`
	IsVeg       bool                                  `gorm:"not null" json:"is_veg"`
	CreatedAt   time.Time                             `json:"created_at"`
	UpdatedAt   time.Time                             `json:"updated_at"`
	DeletedAt   gorm.DeletedAt                        `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// FindAttribute looks up a variation by name
func (p Product) FindAttribute(name string) (ProductAttribute, bool) {
	for _, attr := range p.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return ProductAttribute{}, false
}

// ComboComponent is one product bundled in a combo
type ComboComponent struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// Combo bundles several products at a fixed price
type Combo struct {
	ID          uint                                `gorm:"primaryKey" json:"id"`
	Name        string                              `gorm:"not null" json:"name"`
	Description string                              `json:"description"`
	Price       decimal.Decimal                     `gorm:"type:numeric(12,2);not null" json:"price"`
	Components  datatypes.JSONSlice[ComboComponent] `json:"components"`
	ImageS3Key  *string                             `json:"image_s3_key"`
	ImageURL    *string                             `gorm:"-" json:"image_url,omitempty"`
	IsActive    bool                                `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time                           `json:"created_at"`
	UpdatedAt   time.Time                           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt                      `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Combo model
func (Combo) TableName() string {
	return "combos"
}

// AddOn is an optional chargeable extra, e.g. candles or a greeting card
type AddOn struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the AddOn model
func (AddOn) TableName() string {
	return "add_ons"
}
