package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, attrs ...models.ProductAttribute) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Price:       dec(price),
		Attributes:  datatypes.JSONSlice[models.ProductAttribute](attrs),
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedPartner(t *testing.T, db *gorm.DB, name string) models.DeliveryPartner {
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

func testCart(lines ...pricing.CartLine) *pricing.Cart {
	cart := &pricing.Cart{}
	for _, l := range lines {
		if err := cart.Add(l); err != nil {
			panic(err)
		}
	}
	return cart
}

func line(id uint, name, price string, qty int) pricing.CartLine {
	return pricing.CartLine{
		Item:     pricing.CatalogItem{ID: id, Type: models.ItemProduct, Name: name, UnitPrice: dec(price)},
		Quantity: qty,
	}
}

// countingRefresher records out-of-schedule pending re-checks
type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Poll(context.Context) error {
	r.calls++
	return r.err
}

// failingStore is an OrderStore whose writes always fail
type failingStore struct {
	OrderStore
	err     error
	creates int
}

func (s *failingStore) CreateOrder(context.Context, models.Order) (models.Order, error) {
	s.creates++
	return models.Order{}, s.err
}
