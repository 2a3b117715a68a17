package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/middleware"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/services"
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
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// every connection to :memory: is a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupOrderService installs an order service over db with 18% tax and a 40 delivery fee
func setupOrderService(db *gorm.DB) *services.OrderService {
	return services.InitOrderService(services.NewGormStore(db), services.OrderServiceConfig{
		TaxRate:     dec("0.18"),
		DeliveryFee: dec("40"),
	}, discardLogger())
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing
// It sets up the context exactly as the real EnsureValidToken middleware does
func mockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", accessToken)
		c.Set("validated_claims", &validator.ValidatedClaims{
			CustomClaims: &middleware.CustomClaims{Role: role},
		})
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response body: %s", w.Body.String())
	return response
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeResponse(t, w)["data"].(map[string]interface{})
	require.True(t, ok, "Response body: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeResponse(t, w)
	require.Equal(t, false, response["success"])
	return response["error"].(map[string]interface{})["code"].(string)
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
	p := models.DeliveryPartner{Name: name, Phone: "9876543210", IsAvailable: true, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedOrder(t *testing.T, svc *services.OrderService, db *gorm.DB) models.Order {
	t.Helper()
	cake := seedProduct(t, db, "Black Forest", "600")
	cart, err := services.NewCatalogResolver(db).ResolveAll(t.Context(), []services.LineRequest{
		{Type: models.ItemProduct, ItemID: cake.ID, Quantity: 1},
	})
	require.NoError(t, err)
	order, err := svc.CreateOrder(t.Context(), cart, services.OnlineCheckout{
		CustomerName:  "Meera",
		CustomerPhone: "9000000002",
		PaymentMethod: models.PaymentOnline,
	})
	require.NoError(t, err)
	return order
}
