package repository

import (
	"context"
	"restaurant_manager/internal/models"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	ReplaceForOrder(ctx context.Context, orderID uint, items []models.OrderItem) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get items of order %d", orderID)
	}
	return items, nil
}

// ReplaceForOrder drops the order's current line items and inserts items in
// their place. The slice elements receive their new ids.
func (r *orderItemRepository) ReplaceForOrder(ctx context.Context, orderID uint, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return errors.Wrapf(err, "clear items of order %d", orderID)
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = orderID
	}
	if err := db.Omit("MenuItem").Create(&items).Error; err != nil {
		return errors.Wrapf(err, "insert items of order %d", orderID)
	}
	return nil
}
