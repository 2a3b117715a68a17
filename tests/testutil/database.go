package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database and installs it as config.DB
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	// every connection to :memory: is a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test database")
	config.SetDB(db)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// DiscardLogger drops everything logged during a test
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Money parses a decimal literal, panicking on bad input
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedProduct creates an available product
func SeedProduct(t *testing.T, db *gorm.DB, name, price string, attrs ...models.ProductAttribute) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Price:       Money(price),
		Attributes:  datatypes.JSONSlice[models.ProductAttribute](attrs),
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// SeedPartner creates an available, active delivery partner
func SeedPartner(t *testing.T, db *gorm.DB, name string) models.DeliveryPartner {
	t.Helper()
	p := models.DeliveryPartner{
		Name:        name,
		Phone:       "9876543210",
		VehicleType: "bike",
		IsAvailable: true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
