package migrations

import (
	"context"
	"restaurant_manager/internal/database"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/services"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed controls the default data written after migrating.
type Seed struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	// Demo adds a floor plan and a starter menu when none exist.
	Demo bool
}

// RunMigrations migrates the schema and creates default data. Re-running it
// leaves existing records alone.
func RunMigrations(ctx context.Context, db *gorm.DB, seed Seed, lg *zap.Logger) error {
	lg.Info("Running database migrations")
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if err := createDefaultData(ctx, db, seed, lg); err != nil {
		return errors.Wrap(err, "create default data")
	}
	lg.Info("Database migrations completed")
	return nil
}

// ResetSchema drops every table so the next migration starts from scratch.
func ResetSchema(db *gorm.DB) error {
	tables := database.Models()
	for i, j := 0, len(tables)-1; i < j; i, j = i+1, j-1 {
		tables[i], tables[j] = tables[j], tables[i]
	}
	if err := db.Migrator().DropTable(tables...); err != nil {
		return errors.Wrap(err, "drop tables")
	}
	return nil
}

func createDefaultData(ctx context.Context, db *gorm.DB, seed Seed, lg *zap.Logger) error {
	store := repository.NewStore(db)

	if seed.AdminEmail != "" {
		if err := createAdmin(ctx, store, seed, lg); err != nil {
			return err
		}
	}
	if !seed.Demo {
		return nil
	}
	if err := createTables(ctx, store, lg); err != nil {
		return err
	}
	return createMenu(ctx, store, lg)
}

func createAdmin(ctx context.Context, store repository.Store, seed Seed, lg *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(seed.AdminEmail))
	_, err := store.Users().GetByEmail(ctx, email)
	if err == nil {
		lg.Debug("Admin user already exists", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return errors.Wrap(err, "look up admin")
	}

	name := seed.AdminName
	if name == "" {
		name = "Administrator"
	}
	users := services.NewUserService(store.Users(), nil, "", 0, lg)
	admin, err := users.Register(ctx, services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: seed.AdminPassword,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return errors.Wrap(err, "create admin")
	}
	lg.Info("Admin user created", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
	return nil
}

func createTables(ctx context.Context, store repository.Store, lg *zap.Logger) error {
	existing, err := store.Tables().List(ctx, repository.TableFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	layout := []struct {
		capacity int
		location models.TableLocation
	}{
		{2, models.LocationIndoor}, {2, models.LocationIndoor}, {4, models.LocationIndoor},
		{4, models.LocationIndoor}, {6, models.LocationIndoor}, {4, models.LocationOutdoor},
		{4, models.LocationOutdoor}, {2, models.LocationBalcony}, {2, models.LocationBalcony},
		{10, models.LocationPrivateRoom},
	}
	return store.Transaction(ctx, func(tx repository.Store) error {
		for i, l := range layout {
			table := &models.Table{
				TableNumber: i + 1,
				Capacity:    l.capacity,
				Location:    l.location,
				Status:      models.TableAvailable,
			}
			if err := tx.Tables().Create(ctx, table); err != nil {
				return err
			}
		}
		lg.Info("Demo tables created", zap.Int("count", len(layout)))
		return nil
	})
}

func createMenu(ctx context.Context, store repository.Store, lg *zap.Logger) error {
	existing, err := store.MenuItems().Categories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	items := []models.MenuItem{
		{Name: "Bruschetta", Description: "Grilled bread, tomato, basil", Price: decimal.RequireFromString("6.50"), Category: "Starters", PreparationTime: 10},
		{Name: "Tomato Soup", Description: "Slow-cooked tomato and herbs", Price: decimal.RequireFromString("5.00"), Category: "Starters", PreparationTime: 8},
		{Name: "Classic Burger", Description: "Beef patty, cheddar, pickles", Price: decimal.RequireFromString("10.00"), Category: "Mains", PreparationTime: 15},
		{Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Price: decimal.RequireFromString("12.00"), Category: "Mains", PreparationTime: 18},
		{Name: "Grilled Salmon", Description: "With seasonal vegetables", Price: decimal.RequireFromString("18.50"), Category: "Mains", PreparationTime: 20},
		{Name: "French Fries", Price: decimal.RequireFromString("5.00"), Category: "Sides", PreparationTime: 7},
		{Name: "Tiramisu", Price: decimal.RequireFromString("7.00"), Category: "Desserts", PreparationTime: 5},
		{Name: "Lemonade", Price: decimal.RequireFromString("3.50"), Category: "Drinks", PreparationTime: 2},
	}
	return store.Transaction(ctx, func(tx repository.Store) error {
		for i := range items {
			items[i].IsAvailable = true
			if err := tx.MenuItems().Create(ctx, &items[i]); err != nil {
				return err
			}
		}
		lg.Info("Demo menu created", zap.Int("count", len(items)))
		return nil
	})
}
