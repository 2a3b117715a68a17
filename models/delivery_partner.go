package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryPartner is a courier that can be assigned to out-for-delivery orders.
// IsAvailable is cleared on assignment and only restored by an operator.
type DeliveryPartner struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Phone           string         `gorm:"not null" json:"phone"`
	Email           string         `json:"email"`
	VehicleType     string         `json:"vehicle_type"`
	VehicleNumber   string         `json:"vehicle_number"`
	IsAvailable     bool           `gorm:"not null" json:"is_available"`
	IsActive        bool           `gorm:"not null" json:"is_active"`
	Rating          float64        `gorm:"not null;default:0" json:"rating"`
	TotalDeliveries int            `gorm:"not null;default:0" json:"total_deliveries"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the DeliveryPartner model
func (DeliveryPartner) TableName() string {
	return "delivery_partners"
}
