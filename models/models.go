package models

import "github.com/shopspring/decimal"

func init() {
	// Money is rendered as JSON numbers so the admin UI can do arithmetic on it
	decimal.MarshalJSONWithoutQuotes = true
}

// All returns every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&Combo{},
		&AddOn{},
		&DeliveryPartner{},
		&Profile{},
		&LoyaltyTransaction{},
		&PromoCode{},
		&Order{},
	}
}
