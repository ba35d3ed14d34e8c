package services

import (
	"context"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StaffDetails carries employment fields. Nil fields keep their current value.
type StaffDetails struct {
	Department       *models.Department
	Salary           *decimal.Decimal
	Shift            *models.Shift
	JoinDate         *time.Time
	Address          *models.Address
	EmergencyContact *models.EmergencyContact
}

// CreateStaffInput opens a user account and its staff record together.
// EmployeeID, Department and Salary are required.
type CreateStaffInput struct {
	Account    RegisterInput
	EmployeeID string
	Details    StaffDetails
}

type UpdateStaffInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Role     *models.UserRole
	IsActive *bool
	Details  StaffDetails
}

type StaffService interface {
	CreateStaff(ctx context.Context, in CreateStaffInput, actor models.Actor) (*models.Staff, error)
	GetStaff(ctx context.Context, id uint) (*models.Staff, error)
	ListStaff(ctx context.Context, filter repository.StaffFilter) ([]models.Staff, error)
	UpdateStaff(ctx context.Context, id uint, in UpdateStaffInput, actor models.Actor) (*models.Staff, error)
	DeleteStaff(ctx context.Context, id uint) error
	AddPerformance(ctx context.Context, id uint, rating int, comments string) (*models.Staff, error)
}

type staffService struct {
	store    repository.Store
	hashCost int
	logger   *zap.Logger
	now      func() time.Time
}

func NewStaffService(store repository.Store, logger *zap.Logger) StaffService {
	return &staffService{
		store:    store,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *staffService) CreateStaff(ctx context.Context, in CreateStaffInput, actor models.Actor) (*models.Staff, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" || in.Details.Department == nil || in.Details.Salary == nil {
		return nil, invalid("", "employee_id, department and salary are required")
	}
	if in.Account.Role == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return nil, errors.Wrap(ErrForbidden, "only admins can create admin accounts")
	}

	staff := &models.Staff{
		EmployeeID: employeeID,
		Shift:      models.ShiftFullDay,
		JoinDate:   s.now(),
	}
	if err := applyStaffDetails(staff, in.Details); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := newAccount(ctx, tx.Users(), in.Account, s.hashCost)
		if err != nil {
			return err
		}
		_, err = tx.Staff().GetByEmployeeID(ctx, employeeID)
		if err == nil {
			return errors.Wrapf(ErrConflict, "employee id %s already exists", employeeID)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return errors.Wrap(err, "check employee id")
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		staff.UserID = user.ID
		return tx.Staff().Create(ctx, staff)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Staff created", zap.Uint("staff_id", staff.ID), zap.String("employee_id", staff.EmployeeID))
	return s.GetStaff(ctx, staff.ID)
}

func (s *staffService) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	return loadStaff(ctx, s.store.Staff(), id)
}

func (s *staffService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]models.Staff, error) {
	if filter.Department != "" && !filter.Department.Valid() {
		return nil, invalid("department", "unknown department %q", filter.Department)
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, invalid("role", "unknown role %q", filter.Role)
	}
	return s.store.Staff().List(ctx, filter)
}

// UpdateStaff patches the staff record and its user account in one
// transaction. Only admins may grant the admin role or edit an admin.
func (s *staffService) UpdateStaff(ctx context.Context, id uint, in UpdateStaffInput, actor models.Actor) (*models.Staff, error) {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		staff, err := loadStaff(ctx, tx.Staff(), id)
		if err != nil {
			return err
		}
		user := staff.User
		if user == nil {
			if user, err = tx.Users().GetByID(ctx, staff.UserID); err != nil {
				return errors.Wrapf(err, "get user of staff %d", id)
			}
		}

		changed, err := applyAccountPatch(ctx, tx.Users(), user, in, actor)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Users().Update(ctx, user); err != nil {
				return err
			}
		}

		if err := applyStaffDetails(staff, in.Details); err != nil {
			return err
		}
		staff.User, staff.Performance = nil, nil
		return tx.Staff().Update(ctx, staff)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStaff(ctx, id)
}

// DeleteStaff removes the staff record and its reviews and deactivates the
// user account. The account itself stays so orders keep their creator.
func (s *staffService) DeleteStaff(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		staff, err := loadStaff(ctx, tx.Staff(), id)
		if err != nil {
			return err
		}
		if err := tx.Staff().Delete(ctx, id); err != nil {
			return err
		}
		if staff.User == nil {
			return nil
		}
		staff.User.IsActive = false
		return tx.Users().Update(ctx, staff.User)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Staff deleted", zap.Uint("staff_id", id))
	return nil
}

func (s *staffService) AddPerformance(ctx context.Context, id uint, rating int, comments string) (*models.Staff, error) {
	if rating < models.MinPerformanceRating || rating > models.MaxPerformanceRating {
		return nil, invalid("rating", "rating must be between %d and %d", models.MinPerformanceRating, models.MaxPerformanceRating)
	}
	if _, err := s.GetStaff(ctx, id); err != nil {
		return nil, err
	}
	review := &models.StaffPerformance{
		StaffID:  id,
		Date:     s.now(),
		Rating:   rating,
		Comments: strings.TrimSpace(comments),
	}
	if err := s.store.Staff().AddPerformance(ctx, review); err != nil {
		return nil, err
	}
	return s.GetStaff(ctx, id)
}

func loadStaff(ctx context.Context, staff repository.StaffRepository, id uint) (*models.Staff, error) {
	record, err := staff.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Staff", ID: id}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get staff %d", id)
	}
	return record, nil
}

// applyAccountPatch copies the account fields of in onto user and reports
// whether anything was set.
func applyAccountPatch(ctx context.Context, users repository.UserRepository, user *models.User, in UpdateStaffInput, actor models.Actor) (bool, error) {
	if actor.Role != models.RoleAdmin {
		if user.Role == models.RoleAdmin {
			return false, errors.Wrap(ErrForbidden, "only admins can edit admin accounts")
		}
		if in.Role != nil && *in.Role == models.RoleAdmin {
			return false, errors.Wrap(ErrForbidden, "only admins can grant the admin role")
		}
	}

	changed := false
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return false, invalid("name", "name cannot be empty")
		}
		user.Name, changed = name, true
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !validEmail(email) {
			return false, invalid("email", "a valid email is required")
		}
		if err := ensureEmailFree(ctx, users, email, user.ID); err != nil {
			return false, err
		}
		user.Email, changed = email, true
	}
	if in.Phone != nil {
		user.Phone, changed = strings.TrimSpace(*in.Phone), true
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return false, invalid("role", "unknown role %q", *in.Role)
		}
		user.Role, changed = *in.Role, true
	}
	if in.IsActive != nil {
		user.IsActive, changed = *in.IsActive, true
	}
	return changed, nil
}

func applyStaffDetails(staff *models.Staff, in StaffDetails) error {
	if in.Department != nil {
		if !in.Department.Valid() {
			return invalid("department", "unknown department %q", *in.Department)
		}
		staff.Department = *in.Department
	}
	if in.Salary != nil {
		if in.Salary.IsNegative() {
			return invalid("salary", "salary cannot be negative")
		}
		staff.Salary = in.Salary.Round(2)
	}
	if in.Shift != nil {
		if !in.Shift.Valid() {
			return invalid("shift", "unknown shift %q", *in.Shift)
		}
		staff.Shift = *in.Shift
	}
	if in.JoinDate != nil {
		staff.JoinDate = *in.JoinDate
	}
	if in.Address != nil {
		staff.Address = *in.Address
	}
	if in.EmergencyContact != nil {
		staff.EmergencyContact = *in.EmergencyContact
	}
	return nil
}
