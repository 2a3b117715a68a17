package controllers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogRouter() *gin.Engine {
	router := setupTestRouter()
	api := router.Group("/api/v1", mockAuthMiddleware("auth0|admin", models.RoleAdmin, "token-admin"))
	Categories.Register(api.Group("/categories"))
	api.POST("/categories/:id/image", Categories.UploadImage("categories"))
	Products.Register(api.Group("/products"))
	api.POST("/products/:id/image", Products.UploadImage("products"))
	AddOns.Register(api.Group("/addons"))
	Combos.Register(api.Group("/combos"))
	DeliveryPartners.Register(api.Group("/delivery-partners"))
	PromoCodes.Register(api.Group("/promo-codes"))
	Profiles.Register(api.Group("/profiles"))
	return router
}

func multipartImage(t *testing.T, path, filename string, size int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCategories_CRUD(t *testing.T) {
	setupTestDB(t)
	services.NewMockImageService().SetAsMockForTesting()
	router := catalogRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Cakes", "sort_order": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := responseData(t, w)
	assert.Equal(t, "Cakes", created["name"])
	assert.Equal(t, true, created["is_active"], "New categories are active unless told otherwise")
	id := created["id"]

	performJSON(router, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Breads", "sort_order": 1})

	w = performJSON(router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeResponse(t, w)
	assert.Equal(t, float64(2), list["count"])
	items := list["data"].([]interface{})
	assert.Equal(t, "Breads", items[0].(map[string]interface{})["name"], "Sorted by sort_order first")

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/api/v1/categories/%.0f", id), map[string]interface{}{"description": "Celebration cakes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := responseData(t, w)
	assert.Equal(t, "Cakes", updated["name"], "Fields missing from the body keep their values")
	assert.Equal(t, "Celebration cakes", updated["description"])

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%.0f", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/categories/%.0f", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", errorCode(t, w))
}

func TestCategories_Errors(t *testing.T) {
	setupTestDB(t)
	router := catalogRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{"missing name", http.MethodPost, "/api/v1/categories", map[string]interface{}{"description": "x"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed body", http.MethodPost, "/api/v1/categories", "{not json", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad id", http.MethodGet, "/api/v1/categories/abc", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown id", http.MethodPut, "/api/v1/categories/999", map[string]interface{}{"name": "x"}, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
		{"bad filter", http.MethodGet, "/api/v1/categories?active=maybe", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedCode, errorCode(t, w))
		})
	}
}

func TestCategories_DuplicateName(t *testing.T) {
	setupTestDB(t)
	router := catalogRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Cookies"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Cookies"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CATEGORY_EXISTS", errorCode(t, w))
}

func TestProducts_Filters(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter()

	cakes := models.Category{Name: "Cakes", IsActive: true}
	require.NoError(t, db.Create(&cakes).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Pineapple Cake", Price: dec("450"), CategoryID: &cakes.ID, IsAvailable: true}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Mango Cake", Price: dec("550"), CategoryID: &cakes.ID}).Error)
	seedProduct(t, db, "Garlic Bread", "120")

	w := performJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/products?category_id=%d", cakes.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeResponse(t, w)["count"])

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/products?category_id=%d&available=true", cakes.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeResponse(t, w)
	require.Equal(t, float64(1), list["count"])
	product := list["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Pineapple Cake", product["name"])
	assert.Equal(t, "Cakes", product["category"].(map[string]interface{})["name"], "Category is preloaded")

	w = performJSON(router, http.MethodGet, "/api/v1/products?category_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_Validation(t *testing.T) {
	setupTestDB(t)
	router := catalogRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/products", map[string]interface{}{"name": "Cake", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "price", decodeResponse(t, w)["error"].(map[string]interface{})["details"])

	w = performJSON(router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":       "Cake",
		"price":      500,
		"attributes": []map[string]interface{}{{"name": "Eggless", "extra_cost": -50}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":       "Cake",
		"price":      500,
		"attributes": []map[string]interface{}{{"name": "Eggless", "extra_cost": 50}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := responseData(t, w)
	assert.Equal(t, float64(500), data["price"])
	assert.Equal(t, true, data["is_available"])
}

func TestCombos_RequireComponents(t *testing.T) {
	setupTestDB(t)
	router := catalogRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/combos", map[string]interface{}{"name": "Party Pack", "price": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, http.MethodPost, "/api/v1/combos", map[string]interface{}{
		"name":       "Party Pack",
		"price":      999,
		"components": []map[string]interface{}{{"product_id": 1, "name": "Cupcake", "quantity": 6}},
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestDeliveryPartners_Filters(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter()

	seedPartner(t, db, "Ravi")
	busy := seedPartner(t, db, "Sunil")
	require.NoError(t, db.Model(&busy).Update("is_available", false).Error)

	w := performJSON(router, http.MethodGet, "/api/v1/delivery-partners?available=true&active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeResponse(t, w)
	require.Equal(t, float64(1), list["count"])
	assert.Equal(t, "Ravi", list["data"].([]interface{})[0].(map[string]interface{})["name"])

	w = performJSON(router, http.MethodPost, "/api/v1/delivery-partners", map[string]interface{}{"name": "Imran"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "Phone is required")
}

func TestPromoCodes_NormalizedAndUsageProtected(t *testing.T) {
	setupTestDB(t)
	router := catalogRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/promo-codes", map[string]interface{}{
		"code":           " diwali10 ",
		"discount_type":  "percentage",
		"discount_value": 10,
		"used_count":     7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := responseData(t, w)
	assert.Equal(t, "DIWALI10", created["code"])
	assert.Equal(t, float64(0), created["used_count"], "Usage is only counted by checkout")

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/api/v1/promo-codes/%.0f", created["id"]), map[string]interface{}{"used_count": 3, "description": "Festive"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(0), responseData(t, w)["used_count"])

	w = performJSON(router, http.MethodPost, "/api/v1/promo-codes", map[string]interface{}{
		"code":           "BAD",
		"discount_type":  "percentage",
		"discount_value": 150,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfiles_ProtectedFields(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/profiles", map[string]interface{}{
		"name":           "Kavya",
		"phone":          "9000000003",
		"loyalty_points": 1000,
		"auth0_id":       "auth0|sneaky",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := responseData(t, w)
	assert.Equal(t, "customer", created["role"])
	assert.Equal(t, float64(0), created["loyalty_points"])
	assert.Nil(t, created["auth0_id"])

	id := uint(created["id"].(float64))
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", id).Update("loyalty_points", 40).Error)

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/api/v1/profiles/%d", id), map[string]interface{}{"loyalty_points": 0, "id": 999, "name": "Kavya R"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := responseData(t, w)
	assert.Equal(t, float64(40), updated["loyalty_points"])
	assert.Equal(t, float64(id), updated["id"])
	assert.Equal(t, "Kavya R", updated["name"])

	w = performJSON(router, http.MethodPost, "/api/v1/profiles", map[string]interface{}{"name": "X", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, http.MethodGet, "/api/v1/profiles?phone=9000000003", nil)
	assert.Equal(t, float64(1), decodeResponse(t, w)["count"])
}

func TestProductImage_UploadReplaceDelete(t *testing.T) {
	db := setupTestDB(t)
	images := services.NewMockImageService()
	images.SetAsMockForTesting()
	router := catalogRouter()
	cake := seedProduct(t, db, "Rasmalai Cake", "800")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartImage(t, fmt.Sprintf("/api/v1/products/%d/image", cake.ID), "cake.png", 1024))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := responseData(t, w)
	firstKey := first["image_s3_key"].(string)
	assert.Equal(t, "products/mock_1_cake.png", firstKey)
	assert.Equal(t, "https://images.test/products/mock_1_cake.png", first["image_url"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartImage(t, fmt.Sprintf("/api/v1/products/%d/image", cake.ID), "cake2.webp", 1024))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, images.ImageExists(firstKey), "The replaced image is deleted")
	assert.Equal(t, 1, images.Count())

	// the key cannot be changed through the JSON API
	w = performJSON(router, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", cake.ID), map[string]interface{}{"image_s3_key": "products/other.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "products/mock_2_cake2.webp", responseData(t, w)["image_s3_key"])

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", cake.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, images.Count(), "Deleting the product deletes its image")
}

func TestProductImage_Errors(t *testing.T) {
	db := setupTestDB(t)
	services.NewMockImageService().SetAsMockForTesting()
	router := catalogRouter()
	cake := seedProduct(t, db, "Tres Leches", "650")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartImage(t, fmt.Sprintf("/api/v1/products/%d/image", cake.ID), "cake.gif", 10))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(t, w))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartImage(t, "/api/v1/products/999/image", "cake.png", 10))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/image", cake.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", errorCode(t, w))
}
