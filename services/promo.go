package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromoQuote is the outcome of checking a promo code against a subtotal
type PromoQuote struct {
	Promo    models.PromoCode `json:"promo"`
	Discount decimal.Decimal  `json:"discount"`
}

// PromoService validates and redeems promo codes
type PromoService struct {
	db *gorm.DB
}

// NewPromoService creates a promo service over db
func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{db: db}
}

// NormalizeCode upper-cases and trims a promo code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidatePromo checks the promo's own fields before it is saved
func ValidatePromo(p *models.PromoCode) error {
	p.Code = NormalizeCode(p.Code)
	if p.Code == "" {
		return NewValidationError("code", "code is required")
	}
	switch p.DiscountType {
	case models.DiscountPercentage:
		if !p.DiscountValue.IsPositive() || p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return NewValidationError("discount_value", "percentage discount must be between 0 and 100")
		}
	case models.DiscountFlat:
		if !p.DiscountValue.IsPositive() {
			return NewValidationError("discount_value", "flat discount must be greater than zero")
		}
	default:
		return NewValidationError("discount_type", "discount type must be percentage or flat")
	}
	if p.MinOrderAmount.IsNegative() {
		return NewValidationError("min_order_amount", "minimum order amount must not be negative")
	}
	if p.MaxDiscount != nil && !p.MaxDiscount.IsPositive() {
		return NewValidationError("max_discount", "maximum discount must be greater than zero")
	}
	if p.ValidFrom != nil && p.ValidUntil != nil && p.ValidUntil.Before(*p.ValidFrom) {
		return NewValidationError("valid_until", "valid_until must be after valid_from")
	}
	if p.UsageLimit != nil && *p.UsageLimit < 1 {
		return NewValidationError("usage_limit", "usage limit must be at least 1")
	}
	return nil
}

// Discount computes what the promo takes off subtotal, capped and never above the subtotal
func Discount(p models.PromoCode, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch p.DiscountType {
	case models.DiscountPercentage:
		discount = subtotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
	case models.DiscountFlat:
		discount = p.DiscountValue
	}
	if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
		discount = *p.MaxDiscount
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return pricing.Round2(discount)
}

// Validate checks that code can be applied to subtotal at now
func (s *PromoService) Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (PromoQuote, error) {
	var promo models.PromoCode
	if err := s.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&promo).Error; err != nil {
		return PromoQuote{}, storeErr("find promo code", err)
	}

	switch {
	case !promo.IsActive:
		return PromoQuote{}, NewValidationError("code", "promo code is not active")
	case promo.ValidFrom != nil && now.Before(*promo.ValidFrom):
		return PromoQuote{}, NewValidationError("code", "promo code is not valid yet")
	case promo.ValidUntil != nil && now.After(*promo.ValidUntil):
		return PromoQuote{}, NewValidationError("code", "promo code has expired")
	case promo.UsageLimit != nil && promo.UsedCount >= *promo.UsageLimit:
		return PromoQuote{}, NewValidationError("code", "promo code usage limit reached")
	case subtotal.LessThan(promo.MinOrderAmount):
		return PromoQuote{}, NewValidationError("subtotal", fmt.Sprintf("minimum order amount is %s", pricing.FormatCurrency(promo.MinOrderAmount)))
	}

	return PromoQuote{Promo: promo, Discount: Discount(promo, subtotal)}, nil
}

// Redeem counts one use of the promo, refusing once the usage limit is reached
func (s *PromoService) Redeem(ctx context.Context, id uint) (models.PromoCode, error) {
	result := s.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return models.PromoCode{}, storeErr("redeem promo code", result.Error)
	}

	var promo models.PromoCode
	if err := s.db.WithContext(ctx).First(&promo, id).Error; err != nil {
		return models.PromoCode{}, storeErr("redeem promo code", err)
	}
	if result.RowsAffected == 0 {
		return models.PromoCode{}, NewValidationError("code", "promo code usage limit reached")
	}
	return promo, nil
}

// Release gives back one use counted by Redeem
func (s *PromoService) Release(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("id = ? AND used_count > 0", id).
		Update("used_count", gorm.Expr("used_count - 1")).Error
	return storeErr("release promo code", err)
}

// Apply checks code, counts its use and only then runs place with the discount.
// When place fails the use is released, so a code never sits on more orders than its limit.
func (s *PromoService) Apply(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time, place func(PromoQuote) (models.Order, error)) (models.Order, error) {
	quote, err := s.Validate(ctx, code, subtotal, now)
	if err != nil {
		return models.Order{}, err
	}
	if _, err := s.Redeem(ctx, quote.Promo.ID); err != nil {
		return models.Order{}, err
	}

	order, err := place(quote)
	if err != nil {
		if relErr := s.Release(context.WithoutCancel(ctx), quote.Promo.ID); relErr != nil {
			slog.Warn("failed to release promo code use", "code", quote.Promo.Code, "err", relErr)
		}
		return models.Order{}, err
	}
	return order, nil
}
