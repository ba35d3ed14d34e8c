package services

import (
	"context"
	"maps"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"sort"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// fakeStore is an in-memory repository.Store. Transaction restores the
// previous contents when the callback fails.
type fakeStore struct {
	orders map[uint]models.Order
	tables map[uint]models.Table
	menu   map[uint]models.MenuItem
	users  map[uint]models.User
	staff  map[uint]models.Staff
	seq    uint

	// tableErr, when set, is returned by every table write.
	tableErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: map[uint]models.Order{},
		tables: map[uint]models.Table{},
		menu:   map[uint]models.MenuItem{},
		users:  map[uint]models.User{},
		staff:  map[uint]models.Staff{},
	}
}

func (s *fakeStore) nextID() uint {
	s.seq++
	return s.seq
}

func (s *fakeStore) Orders() repository.OrderRepository         { return fakeOrders{s} }
func (s *fakeStore) OrderItems() repository.OrderItemRepository { return fakeOrders{s} }
func (s *fakeStore) Tables() repository.TableRepository         { return fakeTables{s} }
func (s *fakeStore) MenuItems() repository.MenuRepository       { return fakeMenu{s} }
func (s *fakeStore) Users() repository.UserRepository           { return fakeUsers{s} }
func (s *fakeStore) Staff() repository.StaffRepository          { return fakeStaff{s} }

func (s *fakeStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	orders, tables, menu, users, seq := maps.Clone(s.orders), maps.Clone(s.tables), maps.Clone(s.menu), maps.Clone(s.users), s.seq
	staff := maps.Clone(s.staff)
	if err := fn(s); err != nil {
		s.orders, s.tables, s.menu, s.users, s.seq = orders, tables, menu, users, seq
		s.staff = staff
		return err
	}
	return nil
}

func (s *fakeStore) addTable(t models.Table) models.Table {
	t.ID = s.nextID()
	s.tables[t.ID] = t
	return t
}

func (s *fakeStore) addMenuItem(m models.MenuItem) models.MenuItem {
	m.ID = s.nextID()
	s.menu[m.ID] = m
	return m
}

type fakeOrders struct{ s *fakeStore }

func (r fakeOrders) Create(_ context.Context, order *models.Order) error {
	order.ID = r.s.nextID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = r.s.nextID()
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	stored.Table, stored.CreatedBy, stored.ServedBy = nil, nil, nil
	r.s.orders[order.ID] = stored
	return nil
}

func (r fakeOrders) GetByID(_ context.Context, id uint) (*models.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.joined(o), nil
}

func (s *fakeStore) joined(o models.Order) *models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	for i := range o.Items {
		if m, ok := s.menu[o.Items[i].MenuItemID]; ok {
			o.Items[i].MenuItem = &m
		}
	}
	if t, ok := s.tables[o.TableID]; ok {
		o.Table = &t
	}
	if u, ok := s.users[o.CreatedByID]; ok {
		o.CreatedBy = &u
	}
	if o.ServedByID != nil {
		if u, ok := s.users[*o.ServedByID]; ok {
			o.ServedBy = &u
		}
	}
	return &o
}

func (r fakeOrders) List(_ context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.TableID != 0 && o.TableID != filter.TableID {
			continue
		}
		out = append(out, *r.s.joined(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r fakeOrders) Update(_ context.Context, order *models.Order) error {
	prev, ok := r.s.orders[order.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored := *order
	stored.Items = prev.Items
	stored.Table, stored.CreatedBy, stored.ServedBy = nil, nil, nil
	stored.UpdatedAt = time.Now()
	r.s.orders[order.ID] = stored
	return nil
}

func (r fakeOrders) Delete(_ context.Context, id uint) error {
	if _, ok := r.s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func (r fakeOrders) GetByOrderID(_ context.Context, orderID uint) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), r.s.orders[orderID].Items...), nil
}

func (r fakeOrders) ReplaceForOrder(_ context.Context, orderID uint, items []models.OrderItem) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range items {
		items[i].ID = r.s.nextID()
		items[i].OrderID = orderID
	}
	o.Items = append([]models.OrderItem(nil), items...)
	for i := range o.Items {
		o.Items[i].MenuItem = nil
	}
	r.s.orders[orderID] = o
	return nil
}

type fakeTables struct{ s *fakeStore }

func (r fakeTables) Create(_ context.Context, table *models.Table) error {
	for _, t := range r.s.tables {
		if t.TableNumber == table.TableNumber {
			return errors.New("duplicate table number")
		}
	}
	table.ID = r.s.nextID()
	r.s.tables[table.ID] = *table
	return nil
}

func (r fakeTables) GetByID(_ context.Context, id uint) (*models.Table, error) {
	t, ok := r.s.tables[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r fakeTables) GetByNumber(_ context.Context, number int) (*models.Table, error) {
	for _, t := range r.s.tables {
		if t.TableNumber == number {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeTables) List(_ context.Context, filter repository.TableFilter) ([]models.Table, error) {
	var out []models.Table
	for _, t := range r.s.tables {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Location != "" && t.Location != filter.Location {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out, nil
}

func (r fakeTables) Update(_ context.Context, table *models.Table) error {
	if r.s.tableErr != nil {
		return r.s.tableErr
	}
	if _, ok := r.s.tables[table.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.tables[table.ID] = *table
	return nil
}

func (r fakeTables) Delete(_ context.Context, id uint) error {
	if _, ok := r.s.tables[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tables, id)
	return nil
}

func (r fakeTables) SetStatus(_ context.Context, id uint, status models.TableStatus) error {
	if r.s.tableErr != nil {
		return r.s.tableErr
	}
	t, ok := r.s.tables[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = status
	r.s.tables[id] = t
	return nil
}

func (r fakeTables) SetOccupancy(_ context.Context, id uint, status models.TableStatus, currentOrderID *uint) error {
	if r.s.tableErr != nil {
		return r.s.tableErr
	}
	t, ok := r.s.tables[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = status
	t.CurrentOrderID = nil
	if currentOrderID != nil {
		id := *currentOrderID
		t.CurrentOrderID = &id
	}
	r.s.tables[t.ID] = t
	return nil
}

func (r fakeTables) ReleaseForOrder(_ context.Context, id, orderID uint) (bool, error) {
	if r.s.tableErr != nil {
		return false, r.s.tableErr
	}
	t, ok := r.s.tables[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if t.CurrentOrderID != nil && *t.CurrentOrderID != orderID {
		return false, nil
	}
	t.Status = models.TableAvailable
	t.CurrentOrderID = nil
	r.s.tables[id] = t
	return true, nil
}

type fakeMenu struct{ s *fakeStore }

func (r fakeMenu) Create(_ context.Context, item *models.MenuItem) error {
	item.ID = r.s.nextID()
	r.s.menu[item.ID] = *item
	return nil
}

func (r fakeMenu) GetByID(_ context.Context, id uint) (*models.MenuItem, error) {
	m, ok := r.s.menu[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r fakeMenu) GetByIDs(_ context.Context, ids []uint) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, id := range ids {
		if m, ok := r.s.menu[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r fakeMenu) List(_ context.Context, filter repository.MenuFilter) ([]models.MenuItem, error) {
	var out []models.MenuItem
	search := strings.ToLower(filter.Search)
	for _, m := range r.s.menu {
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		if filter.Available != nil && m.IsAvailable != *filter.Available {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) &&
			!strings.Contains(strings.ToLower(m.Description), search) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r fakeMenu) Update(_ context.Context, item *models.MenuItem) error {
	if _, ok := r.s.menu[item.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.menu[item.ID] = *item
	return nil
}

func (r fakeMenu) Delete(_ context.Context, id uint) error {
	if _, ok := r.s.menu[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.menu, id)
	return nil
}

func (r fakeMenu) Categories(_ context.Context) ([]string, error) {
	set := map[string]bool{}
	for _, m := range r.s.menu {
		set[m.Category] = true
	}
	var out []string
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

type fakeUsers struct{ s *fakeStore }

func (r fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errors.New("duplicate email")
		}
	}
	user.ID = r.s.nextID()
	r.s.users[user.ID] = *user
	return nil
}

func (r fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if strings.ToLower(u.Email) == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeUsers) GetAll(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

type fakeStaff struct{ s *fakeStore }

func (r fakeStaff) Create(_ context.Context, staff *models.Staff) error {
	for _, existing := range r.s.staff {
		if existing.EmployeeID == staff.EmployeeID {
			return errors.New("duplicate employee id")
		}
	}
	staff.ID = r.s.nextID()
	stored := *staff
	stored.User, stored.Performance = nil, nil
	r.s.staff[staff.ID] = stored
	return nil
}

func (r fakeStaff) joined(staff models.Staff) *models.Staff {
	staff.Performance = append([]models.StaffPerformance(nil), staff.Performance...)
	if u, ok := r.s.users[staff.UserID]; ok {
		staff.User = &u
	}
	return &staff
}

func (r fakeStaff) GetByID(_ context.Context, id uint) (*models.Staff, error) {
	staff, ok := r.s.staff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.joined(staff), nil
}

func (r fakeStaff) GetByEmployeeID(_ context.Context, employeeID string) (*models.Staff, error) {
	for _, staff := range r.s.staff {
		if staff.EmployeeID == employeeID {
			return r.joined(staff), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeStaff) List(_ context.Context, filter repository.StaffFilter) ([]models.Staff, error) {
	var out []models.Staff
	for _, staff := range r.s.staff {
		if filter.Department != "" && staff.Department != filter.Department {
			continue
		}
		if filter.Role != "" && r.s.users[staff.UserID].Role != filter.Role {
			continue
		}
		out = append(out, *r.joined(staff))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinDate.Equal(out[j].JoinDate) {
			return out[i].JoinDate.After(out[j].JoinDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r fakeStaff) Update(_ context.Context, staff *models.Staff) error {
	prev, ok := r.s.staff[staff.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored := *staff
	stored.User, stored.Performance = nil, prev.Performance
	r.s.staff[staff.ID] = stored
	return nil
}

func (r fakeStaff) Delete(_ context.Context, id uint) error {
	if _, ok := r.s.staff[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.staff, id)
	return nil
}

func (r fakeStaff) AddPerformance(_ context.Context, review *models.StaffPerformance) error {
	staff, ok := r.s.staff[review.StaffID]
	if !ok {
		return repository.ErrNotFound
	}
	review.ID = r.s.nextID()
	staff.Performance = append(append([]models.StaffPerformance(nil), staff.Performance...), *review)
	r.s.staff[staff.ID] = staff
	return nil
}
