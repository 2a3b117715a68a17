package services

import (
	"context"
	"testing"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoyaltyService_AdjustAndHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoyaltyService(db)
	ctx := context.Background()

	profile := models.Profile{Name: "Asha", Phone: "9876543210", Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(&profile).Error)

	orderID := uint(7)
	updated, txn, err := svc.Adjust(ctx, profile.ID, 120, "order ORD-20261018-ABC123", &orderID)
	require.NoError(t, err)
	assert.Equal(t, 120, updated.LoyaltyPoints)
	assert.Equal(t, 120, txn.BalanceAfter)
	require.NotNil(t, txn.OrderID)
	assert.Equal(t, orderID, *txn.OrderID)

	updated, txn, err = svc.Adjust(ctx, profile.ID, -100, "redeemed at counter", nil)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.LoyaltyPoints)
	assert.Equal(t, -100, txn.Delta)

	history, err := svc.History(ctx, profile.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, -100, history[0].Delta, "newest first")
	assert.Equal(t, 20, history[0].BalanceAfter)

	limited, err := svc.History(ctx, profile.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLoyaltyService_NeverNegative(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoyaltyService(db)
	ctx := context.Background()

	profile := models.Profile{Name: "Ravi", Role: models.RoleCustomer, LoyaltyPoints: 30, IsActive: true}
	require.NoError(t, db.Create(&profile).Error)

	_, _, err := svc.Adjust(ctx, profile.ID, -31, "redeem", nil)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	var stored models.Profile
	require.NoError(t, db.First(&stored, profile.ID).Error)
	assert.Equal(t, 30, stored.LoyaltyPoints)

	var count int64
	require.NoError(t, db.Model(&models.LoyaltyTransaction{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected debit leaves no transaction")

	updated, _, err := svc.Adjust(ctx, profile.ID, -30, "redeem all", nil)
	require.NoError(t, err)
	assert.Zero(t, updated.LoyaltyPoints)
}

func TestLoyaltyService_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoyaltyService(db)
	ctx := context.Background()

	_, _, err := svc.Adjust(ctx, 1, 0, "nothing", nil)
	assert.True(t, IsValidation(err))

	_, _, err = svc.Adjust(ctx, 1, 10, "  ", nil)
	assert.True(t, IsValidation(err))

	_, _, err = svc.Adjust(ctx, 999, 10, "bonus", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.History(ctx, 999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}
