package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile roles
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// Profile represents a person known to the back office: staff logging in through Auth0,
// or a customer collecting loyalty points
type Profile struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Auth0ID       *string        `gorm:"uniqueIndex" json:"auth0_id,omitempty"` // Auth0 user ID (from 'sub' claim), staff only
	Name          string         `gorm:"not null" json:"name"`
	Phone         string         `gorm:"index" json:"phone"`
	Email         string         `json:"email"`
	Role          string         `gorm:"not null;default:'customer'" json:"role"`
	LoyaltyPoints int            `gorm:"not null;default:0;check:loyalty_points >= 0" json:"loyalty_points"`
	IsActive      bool           `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// IsStaff reports whether the profile may use the back office
func (p Profile) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleStaff
}

// ValidRole reports whether role is a known profile role
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff || role == RoleCustomer
}

// LoyaltyTransaction records one change to a profile's loyalty balance
type LoyaltyTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProfileID    uint      `gorm:"not null;index" json:"profile_id"`
	Delta        int       `gorm:"not null" json:"delta"`
	Reason       string    `gorm:"not null" json:"reason"`
	BalanceAfter int       `gorm:"not null" json:"balance_after"`
	OrderID      *uint     `gorm:"index" json:"order_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the LoyaltyTransaction model
func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}
