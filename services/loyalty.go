package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"gorm.io/gorm"
)

// LoyaltyService adjusts customer loyalty balances
type LoyaltyService struct {
	db *gorm.DB
}

// NewLoyaltyService creates a loyalty service over db
func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{db: db}
}

// Adjust adds delta (negative to redeem) to the profile's balance and records the change.
// The balance never goes below zero.
func (s *LoyaltyService) Adjust(ctx context.Context, profileID uint, delta int, reason string, orderID *uint) (models.Profile, models.LoyaltyTransaction, error) {
	reason = strings.TrimSpace(reason)
	if delta == 0 {
		return models.Profile{}, models.LoyaltyTransaction{}, NewValidationError("delta", "delta must not be zero")
	}
	if reason == "" {
		return models.Profile{}, models.LoyaltyTransaction{}, NewValidationError("reason", "reason is required")
	}

	var profile models.Profile
	var txn models.LoyaltyTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).
			Where("id = ? AND loyalty_points + ? >= 0", profileID, delta).
			Update("loyalty_points", gorm.Expr("loyalty_points + ?", delta))
		if result.Error != nil {
			return result.Error
		}

		if err := tx.First(&profile, profileID).Error; err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		txn = models.LoyaltyTransaction{
			ProfileID:    profileID,
			Delta:        delta,
			Reason:       reason,
			BalanceAfter: profile.LoyaltyPoints,
			OrderID:      orderID,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return models.Profile{}, models.LoyaltyTransaction{}, storeErr("adjust loyalty points", err)
	}
	return profile, txn, nil
}

// History lists a profile's loyalty transactions, newest first
func (s *LoyaltyService) History(ctx context.Context, profileID uint, limit int) ([]models.LoyaltyTransaction, error) {
	if err := s.db.WithContext(ctx).Select("id").First(&models.Profile{}, profileID).Error; err != nil {
		return nil, storeErr("loyalty history", err)
	}

	q := s.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var txns []models.LoyaltyTransaction
	if err := q.Find(&txns).Error; err != nil {
		return nil, storeErr("loyalty history", err)
	}
	return txns, nil
}
