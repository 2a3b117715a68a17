package services

import (
	"context"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"gorm.io/gorm"
)

// GormStore implements OrderStore on top of gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) filtered(ctx context.Context, filter OrderFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.IsPOS != nil {
		q = q.Where("is_pos = ?", *filter.IsPOS)
	}
	return q
}

// ListOrders returns orders newest first
func (s *GormStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := s.filtered(ctx, filter).Preload("DeliveryPartner").Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, storeErr("list orders", err)
	}
	return orders, nil
}

// CountOrders counts orders matching filter
func (s *GormStore) CountOrders(ctx context.Context, filter OrderFilter) (int64, error) {
	var count int64
	if err := s.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, storeErr("count orders", err)
	}
	return count, nil
}

// GetOrder loads one order with its delivery partner
func (s *GormStore) GetOrder(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("DeliveryPartner").First(&order, id).Error; err != nil {
		return models.Order{}, storeErr("get order", err)
	}
	return order, nil
}

// CreateOrder inserts the order and returns it with generated fields populated
func (s *GormStore) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return models.Order{}, storeErr("create order", err)
	}
	return order, nil
}

// UpdateOrder applies a partial update
func (s *GormStore) UpdateOrder(ctx context.Context, id uint, update OrderUpdate) (models.Order, error) {
	updates := make(map[string]interface{})
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		updates["payment_status"] = *update.PaymentStatus
	}
	if update.DeliveryPartnerID != nil {
		updates["delivery_partner_id"] = *update.DeliveryPartnerID
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return models.Order{}, storeErr("update order", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.Order{}, storeErr("update order", ErrNotFound)
		}
	}

	return s.GetOrder(ctx, id)
}

// GetDeliveryPartner loads one delivery partner
func (s *GormStore) GetDeliveryPartner(ctx context.Context, id uint) (models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	if err := s.db.WithContext(ctx).First(&partner, id).Error; err != nil {
		return models.DeliveryPartner{}, storeErr("get delivery partner", err)
	}
	return partner, nil
}

// UpdateDeliveryPartner applies a partial update
func (s *GormStore) UpdateDeliveryPartner(ctx context.Context, id uint, update PartnerUpdate) (models.DeliveryPartner, error) {
	updates := make(map[string]interface{})
	if update.IsAvailable != nil {
		updates["is_available"] = *update.IsAvailable
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if update.TotalDeliveries != nil {
		updates["total_deliveries"] = *update.TotalDeliveries
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.DeliveryPartner{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return models.DeliveryPartner{}, storeErr("update delivery partner", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.DeliveryPartner{}, storeErr("update delivery partner", ErrNotFound)
		}
	}

	return s.GetDeliveryPartner(ctx, id)
}

// AssignDeliveryPartner updates the order and the partner in one transaction
func (s *GormStore) AssignDeliveryPartner(ctx context.Context, orderID, partnerID uint) (models.Order, models.DeliveryPartner, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		var partner models.DeliveryPartner
		if err := tx.First(&partner, partnerID).Error; err != nil {
			return err
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":              models.StatusOutForDelivery,
			"delivery_partner_id": partner.ID,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&partner).Update("is_available", false).Error
	})
	if err != nil {
		return models.Order{}, models.DeliveryPartner{}, storeErr("assign delivery partner", err)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, models.DeliveryPartner{}, err
	}
	partner, err := s.GetDeliveryPartner(ctx, partnerID)
	if err != nil {
		return models.Order{}, models.DeliveryPartner{}, err
	}
	return order, partner, nil
}
