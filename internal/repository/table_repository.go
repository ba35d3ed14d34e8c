package repository

import (
	"context"
	"restaurant_manager/internal/models"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableFilter struct {
	Status   models.TableStatus
	Location models.TableLocation
}

type TableRepository interface {
	Create(ctx context.Context, table *models.Table) error
	GetByID(ctx context.Context, id uint) (*models.Table, error)
	GetByNumber(ctx context.Context, number int) (*models.Table, error)
	List(ctx context.Context, filter TableFilter) ([]models.Table, error)
	Update(ctx context.Context, table *models.Table) error
	Delete(ctx context.Context, id uint) error
	SetStatus(ctx context.Context, id uint, status models.TableStatus) error
	// SetOccupancy writes status and current order in a single row update.
	SetOccupancy(ctx context.Context, id uint, status models.TableStatus, currentOrderID *uint) error
	// ReleaseForOrder marks the table Available only while orderID holds it or
	// no order does. It reports whether the row changed.
	ReleaseForOrder(ctx context.Context, id, orderID uint) (bool, error)
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *models.Table) error {
	if err := r.db.WithContext(ctx).Create(table).Error; err != nil {
		return errors.Wrap(err, "create table")
	}
	return nil
}

func (r *tableRepository) GetByID(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &table, nil
}

func (r *tableRepository) GetByNumber(ctx context.Context, number int) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).Where("table_number = ?", number).First(&table).Error; err != nil {
		return nil, notFound(err)
	}
	return &table, nil
}

func (r *tableRepository) List(ctx context.Context, filter TableFilter) ([]models.Table, error) {
	q := r.db.WithContext(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}
	var tables []models.Table
	if err := q.Order("table_number").Find(&tables).Error; err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	return tables, nil
}

func (r *tableRepository) Update(ctx context.Context, table *models.Table) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(table).Error; err != nil {
		return errors.Wrapf(err, "update table %d", table.ID)
	}
	return nil
}

func (r *tableRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Table{}, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete table %d", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) SetStatus(ctx context.Context, id uint, status models.TableStatus) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"status": status})
}

func (r *tableRepository) SetOccupancy(ctx context.Context, id uint, status models.TableStatus, currentOrderID *uint) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"status":           status,
		"current_order_id": currentOrderID,
	})
}

func (r *tableRepository) ReleaseForOrder(ctx context.Context, id, orderID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND (current_order_id = ? OR current_order_id IS NULL)", id, orderID).
		Updates(map[string]interface{}{
			"status":           models.TableAvailable,
			"current_order_id": nil,
		})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "release table %d", id)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "check table %d", id)
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *tableRepository) updateColumns(ctx context.Context, id uint, cols map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update table %d", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
