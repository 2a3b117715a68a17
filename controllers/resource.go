package controllers

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"gorm.io/gorm"
)

// identityFields are owned by the database and never taken from a request body
var identityFields = []string{"ID", "CreatedAt", "UpdatedAt", "DeletedAt"}

// resource wires the five CRUD handlers for one catalog table
type resource[T any] struct {
	code    string // error code prefix, e.g. PRODUCT
	label   string // used in error messages, e.g. "product"
	order   string
	preload []string

	// newItem returns a row with API defaults applied before the body is bound
	newItem func() *T
	// validate checks a bound row before it is written
	validate func(item *T) error
	// keep copies fields the API must not overwrite from the stored row onto the update
	keep func(stored, updated *T)
	// filter narrows List from query parameters; it answers 400 itself and returns false on bad input
	filter func(c *gin.Context, q *gorm.DB) (*gorm.DB, bool)
	// image exposes the row's stored image key and computed URL, nil for tables without images
	image func(item *T) (key, url **string)
}

func (r resource[T]) query(c *gin.Context) *gorm.DB {
	q := config.GetDB().WithContext(c.Request.Context())
	for _, p := range r.preload {
		q = q.Preload(p)
	}
	return q
}

func (r resource[T]) show(c *gin.Context, item *T) {
	if r.image == nil {
		return
	}
	key, url := r.image(item)
	*url = resolveImageURL(c, *key)
}

// protect restores the fields clients may not write; images change only through the upload endpoint
func (r resource[T]) protect(stored, updated *T) {
	from, to := reflect.ValueOf(stored).Elem(), reflect.ValueOf(updated).Elem()
	for _, name := range identityFields {
		if f := to.FieldByName(name); f.IsValid() && f.CanSet() {
			f.Set(from.FieldByName(name))
		}
	}
	if r.keep != nil {
		r.keep(stored, updated)
	}
	if r.image != nil {
		storedKey, _ := r.image(stored)
		key, _ := r.image(updated)
		*key = *storedKey
	}
}

func (r resource[T]) load(c *gin.Context) (*T, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	item := new(T)
	if err := r.query(c).First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, r.code+"_NOT_FOUND", humanize(r.code)+" not found")
			return nil, false
		}
		respondServiceError(c, err, r.code, "load "+r.label)
		return nil, false
	}
	return item, true
}

// List handles GET /
func (r resource[T]) List(c *gin.Context) {
	q := r.query(c)
	if r.filter != nil {
		var ok bool
		if q, ok = r.filter(c, q); !ok {
			return
		}
	}
	if r.order != "" {
		q = q.Order(r.order)
	}

	var items []T
	if err := q.Find(&items).Error; err != nil {
		respondServiceError(c, err, r.code, "list "+r.label+"s")
		return
	}
	for i := range items {
		r.show(c, &items[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

// Get handles GET /:id
func (r resource[T]) Get(c *gin.Context) {
	item, ok := r.load(c)
	if !ok {
		return
	}
	r.show(c, item)
	respondData(c, http.StatusOK, item)
}

// Create handles POST /
func (r resource[T]) Create(c *gin.Context) {
	item := r.newItem()
	if !bindJSON(c, item) {
		return
	}
	r.protect(r.newItem(), item)
	if r.validate != nil {
		if err := r.validate(item); err != nil {
			respondServiceError(c, err, r.code, "create "+r.label)
			return
		}
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Create(item).Error; err != nil {
		respondServiceError(c, err, r.code, "create "+r.label)
		return
	}

	r.show(c, item)
	respondData(c, http.StatusCreated, item)
}

// Update handles PUT /:id. Fields missing from the body keep their stored values.
func (r resource[T]) Update(c *gin.Context) {
	stored, ok := r.load(c)
	if !ok {
		return
	}

	updated := *stored
	if !bindJSON(c, &updated) {
		return
	}
	r.protect(stored, &updated)
	if r.validate != nil {
		if err := r.validate(&updated); err != nil {
			respondServiceError(c, err, r.code, "update "+r.label)
			return
		}
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Omit(r.preload...).Save(&updated).Error; err != nil {
		respondServiceError(c, err, r.code, "update "+r.label)
		return
	}

	r.show(c, &updated)
	respondData(c, http.StatusOK, &updated)
}

// Delete handles DELETE /:id
func (r resource[T]) Delete(c *gin.Context) {
	item, ok := r.load(c)
	if !ok {
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		respondServiceError(c, err, r.code, "delete "+r.label)
		return
	}

	if r.image != nil {
		if key, _ := r.image(item); *key != nil {
			deleteImage(c, **key)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": humanize(r.code) + " deleted",
	})
}

// Register mounts the handlers on g
func (r resource[T]) Register(g *gin.RouterGroup, write ...gin.HandlerFunc) {
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.POST("", append(write, r.Create)...)
	g.PUT("/:id", append(write, r.Update)...)
	g.DELETE("/:id", append(write, r.Delete)...)
}

// asValidation is a shorthand for building validation errors in resource validators
func asValidation(field, message string) error {
	return services.NewValidationError(field, message)
}
