package repository

import (
	"context"
	"restaurant_manager/internal/models"
	"time"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status  models.OrderStatus
	TableID uint
	Date    *time.Time // orders created on this calendar day
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order together with its line items.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).
		Omit("Table", "CreatedBy", "ServedBy").
		Create(order).Error
	if err != nil {
		return errors.Wrap(err, "create order")
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := withDetails(r.db.WithContext(ctx)).First(&order, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := withDetails(r.db.WithContext(ctx))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TableID != 0 {
		q = q.Where("table_id = ?", filter.TableID)
	}
	if filter.Date != nil {
		start := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		q = q.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// Update writes every column of the order row. Line items are persisted
// separately through OrderItemRepository.
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	res := r.db.WithContext(ctx).Omit(clause.Associations).Save(order)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update order %d", order.ID)
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return errors.Wrapf(err, "delete items of order %d", id)
	}
	res := db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete order %d", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// withDetails loads the records an order is displayed with.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.MenuItem").
		Preload("CreatedBy").
		Preload("ServedBy")
}
