package repository

import (
	"context"
	"restaurant_manager/internal/models"
	"strings"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type MenuFilter struct {
	Category  string
	Search    string
	Available *bool
}

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]string, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "create menu item")
	}
	return nil
}

func (r *menuRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *menuRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "get menu items by ids")
	}
	return items, nil
}

func (r *menuRepository) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Available != nil {
		q = q.Where("is_available = ?", *filter.Available)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var items []models.MenuItem
	if err := q.Order("category").Order("name").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return items, nil
}

func (r *menuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return errors.Wrapf(err, "update menu item %d", item.ID)
	}
	return nil
}

func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete menu item %d", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Distinct().Order("category").Pluck("category", &categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}
