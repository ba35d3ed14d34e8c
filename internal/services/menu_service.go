package services

import (
	"context"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// MenuItemInput carries menu item fields. On update, nil fields keep their
// current value; on create, Name, Price and Category are required.
type MenuItemInput struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	Category        *string
	Image           *string
	IsAvailable     *bool
	PreparationTime *int
}

type MenuService interface {
	CreateItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error)
	GetItem(ctx context.Context, id uint) (*models.MenuItem, error)
	ListItems(ctx context.Context, filter repository.MenuFilter) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]string, error)
}

type menuService struct {
	menuRepo repository.MenuRepository
}

func NewMenuService(menuRepo repository.MenuRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

func (s *menuService) CreateItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if in.Name == nil || in.Price == nil || in.Category == nil {
		return nil, invalid("", "name, price and category are required")
	}
	item := &models.MenuItem{
		IsAvailable:     true,
		PreparationTime: models.DefaultPreparationTime,
	}
	if err := applyMenuInput(item, in); err != nil {
		return nil, err
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Menu item", ID: id}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get menu item %d", id)
	}
	return item, nil
}

func (s *menuService) ListItems(ctx context.Context, filter repository.MenuFilter) ([]models.MenuItem, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.menuRepo.List(ctx, filter)
}

// UpdateItem changes the catalog entry only. Orders keep the prices they
// were placed with.
func (s *menuService) UpdateItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyMenuInput(item, in); err != nil {
		return nil, err
	}
	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) DeleteItem(ctx context.Context, id uint) error {
	err := s.menuRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "Menu item", ID: id}
	}
	return err
}

func (s *menuService) Categories(ctx context.Context) ([]string, error) {
	return s.menuRepo.Categories(ctx)
}

func applyMenuInput(item *models.MenuItem, in MenuItemInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return invalid("name", "name cannot be empty")
		}
		item.Name = name
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return invalid("category", "category cannot be empty")
		}
		item.Category = category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return invalid("price", "price cannot be negative")
		}
		item.Price = in.Price.Round(2)
	}
	if in.PreparationTime != nil {
		if *in.PreparationTime < 0 {
			return invalid("preparation_time", "preparation time cannot be negative")
		}
		item.PreparationTime = *in.PreparationTime
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	return nil
}
