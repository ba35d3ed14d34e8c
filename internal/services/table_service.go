package services

import (
	"context"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"

	"github.com/go-faster/errors"
)

// TableInput carries table fields. On update, nil fields keep their current
// value; on create, TableNumber and Capacity are required.
type TableInput struct {
	TableNumber *int
	Capacity    *int
	Location    *models.TableLocation
	Status      *models.TableStatus
}

type TableService interface {
	CreateTable(ctx context.Context, in TableInput) (*models.Table, error)
	GetTable(ctx context.Context, id uint) (*models.Table, error)
	ListTables(ctx context.Context, filter repository.TableFilter) ([]models.Table, error)
	UpdateTable(ctx context.Context, id uint, in TableInput) (*models.Table, error)
	SetStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error)
	DeleteTable(ctx context.Context, id uint) error
}

type tableService struct {
	tableRepo repository.TableRepository
}

func NewTableService(tableRepo repository.TableRepository) TableService {
	return &tableService{tableRepo: tableRepo}
}

func (s *tableService) CreateTable(ctx context.Context, in TableInput) (*models.Table, error) {
	if in.TableNumber == nil || in.Capacity == nil {
		return nil, invalid("", "table_number and capacity are required")
	}
	table := &models.Table{
		Status:   models.TableAvailable,
		Location: models.LocationIndoor,
	}
	if err := applyTableInput(table, in); err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, table.TableNumber, 0); err != nil {
		return nil, err
	}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *tableService) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Table", ID: id}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get table %d", id)
	}
	return table, nil
}

func (s *tableService) ListTables(ctx context.Context, filter repository.TableFilter) ([]models.Table, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status", "unknown table status %q", filter.Status)
	}
	if filter.Location != "" && !filter.Location.Valid() {
		return nil, invalid("location", "unknown location %q", filter.Location)
	}
	return s.tableRepo.List(ctx, filter)
}

func (s *tableService) UpdateTable(ctx context.Context, id uint, in TableInput) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTableInput(table, in); err != nil {
		return nil, err
	}
	if in.TableNumber != nil {
		if err := s.ensureNumberFree(ctx, table.TableNumber, table.ID); err != nil {
			return nil, err
		}
	}
	if table.Status == models.TableAvailable {
		table.CurrentOrderID = nil
	}
	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// SetStatus overrides the table status by hand. Marking a table Available
// also clears its current order.
func (s *tableService) SetStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, invalid("status", "unknown table status %q", status)
	}
	var err error
	if status == models.TableAvailable {
		err = s.tableRepo.SetOccupancy(ctx, id, status, nil)
	} else {
		err = s.tableRepo.SetStatus(ctx, id, status)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Table", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return s.GetTable(ctx, id)
}

// DeleteTable refuses to remove a table that still has an open order.
func (s *tableService) DeleteTable(ctx context.Context, id uint) error {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return err
	}
	if table.Status == models.TableOccupied && table.CurrentOrderID != nil {
		return errors.Wrapf(ErrConflict, "table %d has an open order", table.TableNumber)
	}
	err = s.tableRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "Table", ID: id}
	}
	return err
}

func (s *tableService) ensureNumberFree(ctx context.Context, number int, selfID uint) error {
	existing, err := s.tableRepo.GetByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "check table number")
	}
	if existing.ID != selfID {
		return errors.Wrapf(ErrConflict, "table number %d already exists", number)
	}
	return nil
}

func applyTableInput(table *models.Table, in TableInput) error {
	if in.TableNumber != nil {
		if *in.TableNumber < 1 {
			return invalid("table_number", "table number must be positive")
		}
		table.TableNumber = *in.TableNumber
	}
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return invalid("capacity", "capacity must be at least 1")
		}
		table.Capacity = *in.Capacity
	}
	if in.Location != nil {
		if !in.Location.Valid() {
			return invalid("location", "unknown location %q", *in.Location)
		}
		table.Location = *in.Location
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return invalid("status", "unknown table status %q", *in.Status)
		}
		table.Status = *in.Status
	}
	return nil
}
