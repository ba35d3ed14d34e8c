package repository

import (
	"context"
	"restaurant_manager/internal/models"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffFilter struct {
	Department models.Department
	Role       models.UserRole
}

type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	// GetByID loads the record with its user account and reviews, oldest
	// review first.
	GetByID(ctx context.Context, id uint) (*models.Staff, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Staff, error)
	// List returns matching records, most recently joined first.
	List(ctx context.Context, filter StaffFilter) ([]models.Staff, error)
	Update(ctx context.Context, staff *models.Staff) error
	// Delete removes the record and its reviews. The user account is kept.
	Delete(ctx context.Context, id uint) error
	AddPerformance(ctx context.Context, review *models.StaffPerformance) error
}

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(staff).Error; err != nil {
		return errors.Wrap(err, "create staff")
	}
	return nil
}

func (r *staffRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Performance", func(db *gorm.DB) *gorm.DB { return db.Order("date, id") })
}

func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.joined(ctx).First(&staff, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &staff, nil
}

func (r *staffRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&staff).Error; err != nil {
		return nil, notFound(err)
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]models.Staff, error) {
	q := r.joined(ctx).Model(&models.Staff{})
	if filter.Department != "" {
		q = q.Where("staff.department = ?", filter.Department)
	}
	if filter.Role != "" {
		q = q.Joins("JOIN users ON users.id = staff.user_id").Where("users.role = ?", filter.Role)
	}
	var staff []models.Staff
	if err := q.Order("staff.join_date DESC, staff.id DESC").Find(&staff).Error; err != nil {
		return nil, errors.Wrap(err, "list staff")
	}
	return staff, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *models.Staff) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(staff).Error; err != nil {
		return errors.Wrapf(err, "update staff %d", staff.ID)
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("staff_id = ?", id).Delete(&models.StaffPerformance{}).Error; err != nil {
		return errors.Wrapf(err, "delete reviews of staff %d", id)
	}
	res := db.Delete(&models.Staff{}, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete staff %d", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) AddPerformance(ctx context.Context, review *models.StaffPerformance) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return errors.Wrapf(err, "add review to staff %d", review.StaffID)
	}
	return nil
}
