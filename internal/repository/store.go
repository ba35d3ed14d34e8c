package repository

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories that share one database handle. Repositories
// obtained from the Store passed to a Transaction callback run inside that
// transaction.
type Store interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Tables() TableRepository
	MenuItems() MenuRepository
	Users() UserRepository
	Staff() StaffRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Orders() OrderRepository         { return NewOrderRepository(s.db) }
func (s *store) OrderItems() OrderItemRepository { return NewOrderItemRepository(s.db) }
func (s *store) Tables() TableRepository         { return NewTableRepository(s.db) }
func (s *store) MenuItems() MenuRepository       { return NewMenuRepository(s.db) }
func (s *store) Users() UserRepository           { return NewUserRepository(s.db) }
func (s *store) Staff() StaffRepository          { return NewStaffRepository(s.db) }

func (s *store) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
