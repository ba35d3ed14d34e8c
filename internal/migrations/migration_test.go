package migrations

import (
	"context"
	"fmt"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunMigrations_SeedsOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	lg := zaptest.NewLogger(t)
	seed := Seed{AdminEmail: "admin@example.com", AdminPassword: "admin123", Demo: true}

	require.NoError(t, RunMigrations(ctx, db, seed, lg))
	require.NoError(t, RunMigrations(ctx, db, seed, lg))

	store := repository.NewStore(db)
	users, err := store.Users().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("admin123")))

	tables, err := store.Tables().List(ctx, repository.TableFilter{})
	require.NoError(t, err)
	assert.Len(t, tables, 10)

	available := true
	menu, err := store.MenuItems().List(ctx, repository.MenuFilter{Available: &available})
	require.NoError(t, err)
	assert.Len(t, menu, 8)
}

func TestRunMigrations_WithoutDemo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, db, Seed{AdminEmail: "admin@example.com", AdminPassword: "admin123"}, zaptest.NewLogger(t)))

	tables, err := repository.NewStore(db).Tables().List(ctx, repository.TableFilter{})
	require.NoError(t, err)
	assert.Empty(t, tables)

	require.NoError(t, ResetSchema(db))
	assert.False(t, db.Migrator().HasTable(&models.Order{}))
}
