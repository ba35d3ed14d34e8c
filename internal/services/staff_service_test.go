package services

import (
	"context"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

var (
	adminActor   = models.Actor{UserID: 900, Role: models.RoleAdmin}
	managerActor = models.Actor{UserID: 901, Role: models.RoleManager}
)

func newStaffFixture(t *testing.T) (*staffService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewStaffService(store, zaptest.NewLogger(t)).(*staffService)
	svc.hashCost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store
}

func chefInput(employeeID, email string) CreateStaffInput {
	return CreateStaffInput{
		Account:    RegisterInput{Name: "Carla", Email: email, Password: "secret1", Role: models.RoleWaiter, Phone: "555-0100"},
		EmployeeID: employeeID,
		Details: StaffDetails{
			Department: ptr(models.DepartmentKitchen),
			Salary:     ptr(dec("2500.555")),
			Address:    &models.Address{City: "Lisbon"},
		},
	}
}

func TestStaffService_Create(t *testing.T) {
	svc, store := newStaffFixture(t)
	ctx := context.Background()

	staff, err := svc.CreateStaff(ctx, chefInput("EMP-1", "Carla@Example.com"), managerActor)
	require.NoError(t, err)

	assert.Equal(t, "EMP-1", staff.EmployeeID)
	assert.Equal(t, models.ShiftFullDay, staff.Shift)
	assert.Equal(t, svc.now(), staff.JoinDate)
	assertMoney(t, "2500.56", staff.Salary, "salary")
	assert.Equal(t, "Lisbon", staff.Address.City)
	require.NotNil(t, staff.User)
	assert.Equal(t, "carla@example.com", staff.User.Email)
	assert.True(t, staff.User.IsActive)
	assert.Len(t, store.users, 1)
}

func TestStaffService_CreateRejects(t *testing.T) {
	svc, store := newStaffFixture(t)
	ctx := context.Background()
	_, err := svc.CreateStaff(ctx, chefInput("EMP-1", "carla@example.com"), adminActor)
	require.NoError(t, err)

	_, err = svc.CreateStaff(ctx, chefInput("EMP-1", "other@example.com"), adminActor)
	require.ErrorIs(t, err, ErrConflict)
	_, err = svc.CreateStaff(ctx, chefInput("EMP-2", "carla@example.com"), adminActor)
	require.ErrorIs(t, err, ErrConflict)
	assert.Len(t, store.users, 1, "failed creates leave no account behind")

	missing := chefInput("", "x@example.com")
	_, err = svc.CreateStaff(ctx, missing, adminActor)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	bad := chefInput("EMP-3", "y@example.com")
	bad.Details.Department = ptr(models.Department("Bar"))
	_, err = svc.CreateStaff(ctx, bad, adminActor)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "department", verr.Field)

	admin := chefInput("EMP-4", "boss@example.com")
	admin.Account.Role = models.RoleAdmin
	_, err = svc.CreateStaff(ctx, admin, managerActor)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateStaff(ctx, admin, adminActor)
	require.NoError(t, err)
}

func TestStaffService_Update(t *testing.T) {
	svc, store := newStaffFixture(t)
	ctx := context.Background()
	staff, err := svc.CreateStaff(ctx, chefInput("EMP-1", "carla@example.com"), adminActor)
	require.NoError(t, err)
	_, err = svc.CreateStaff(ctx, chefInput("EMP-2", "dan@example.com"), adminActor)
	require.NoError(t, err)

	updated, err := svc.UpdateStaff(ctx, staff.ID, UpdateStaffInput{
		Name:     ptr("Carla Souza"),
		Role:     ptr(models.RoleCashier),
		IsActive: ptr(false),
		Details: StaffDetails{
			Department: ptr(models.DepartmentCashier),
			Shift:      ptr(models.ShiftEvening),
		},
	}, managerActor)
	require.NoError(t, err)
	assert.Equal(t, models.DepartmentCashier, updated.Department)
	assert.Equal(t, models.ShiftEvening, updated.Shift)
	assertMoney(t, "2500.56", updated.Salary, "salary kept")
	assert.Equal(t, "Carla Souza", updated.User.Name)
	assert.Equal(t, models.RoleCashier, store.users[staff.UserID].Role)
	assert.False(t, store.users[staff.UserID].IsActive)

	_, err = svc.UpdateStaff(ctx, staff.ID, UpdateStaffInput{Email: ptr("dan@example.com")}, adminActor)
	require.ErrorIs(t, err, ErrConflict)
	_, err = svc.UpdateStaff(ctx, staff.ID, UpdateStaffInput{Role: ptr(models.RoleAdmin)}, managerActor)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.UpdateStaff(ctx, staff.ID, UpdateStaffInput{Details: StaffDetails{Salary: ptr(dec("-1"))}}, adminActor)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Carla Souza", store.users[staff.UserID].Name)

	_, err = svc.UpdateStaff(ctx, 999, UpdateStaffInput{}, adminActor)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStaffService_PerformanceAndDelete(t *testing.T) {
	svc, store := newStaffFixture(t)
	ctx := context.Background()
	staff, err := svc.CreateStaff(ctx, chefInput("EMP-1", "carla@example.com"), adminActor)
	require.NoError(t, err)

	reviewed, err := svc.AddPerformance(ctx, staff.ID, 4, " steady on busy nights ")
	require.NoError(t, err)
	require.Len(t, reviewed.Performance, 1)
	assert.Equal(t, 4, reviewed.Performance[0].Rating)
	assert.Equal(t, "steady on busy nights", reviewed.Performance[0].Comments)
	assert.Equal(t, svc.now(), reviewed.Performance[0].Date)

	for _, rating := range []int{0, 6} {
		_, err = svc.AddPerformance(ctx, staff.ID, rating, "")
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "rating %d", rating)
	}
	_, err = svc.AddPerformance(ctx, 999, 3, "")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteStaff(ctx, staff.ID))
	assert.Empty(t, store.staff)
	require.Contains(t, store.users, staff.UserID)
	assert.False(t, store.users[staff.UserID].IsActive)
	require.ErrorIs(t, svc.DeleteStaff(ctx, staff.ID), ErrNotFound)
}

func TestStaffService_List(t *testing.T) {
	svc, _ := newStaffFixture(t)
	ctx := context.Background()
	_, err := svc.CreateStaff(ctx, chefInput("EMP-1", "carla@example.com"), adminActor)
	require.NoError(t, err)
	cashier := chefInput("EMP-2", "dan@example.com")
	cashier.Account.Role = models.RoleCashier
	cashier.Details.Department = ptr(models.DepartmentCashier)
	cashier.Details.JoinDate = ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	_, err = svc.CreateStaff(ctx, cashier, adminActor)
	require.NoError(t, err)

	all, err := svc.ListStaff(ctx, repository.StaffFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "EMP-2", all[0].EmployeeID, "most recently joined first")

	kitchen, err := svc.ListStaff(ctx, repository.StaffFilter{Department: models.DepartmentKitchen})
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	assert.Equal(t, "EMP-1", kitchen[0].EmployeeID)

	cashiers, err := svc.ListStaff(ctx, repository.StaffFilter{Role: models.RoleCashier})
	require.NoError(t, err)
	require.Len(t, cashiers, 1)
	assert.Equal(t, "EMP-2", cashiers[0].EmployeeID)

	_, err = svc.ListStaff(ctx, repository.StaffFilter{Department: "Bar"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}
