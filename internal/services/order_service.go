package services

import (
	"context"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput, actor models.Actor) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput, actor models.Actor) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, actor models.Actor) (*models.Order, error)
	ProcessPayment(ctx context.Context, id uint, method models.PaymentMethod) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

// OrderOptions toggles the lifecycle policies that are configurable per
// deployment.
type OrderOptions struct {
	// PermissiveTransitions accepts any known status as a target, including
	// moves out of Completed or Cancelled.
	PermissiveTransitions bool
	// RejectRepeatPayment fails payment of an order that is already Paid.
	RejectRepeatPayment bool
}

type LineItemInput struct {
	MenuItemID uint
	Quantity   int
	Notes      string
}

type CreateOrderInput struct {
	TableID uint
	Items   []LineItemInput
	Notes   string
}

// UpdateOrderInput is a partial update. Nil fields are left unchanged; a nil
// Items slice keeps the current line items.
type UpdateOrderInput struct {
	Items         []LineItemInput
	Discount      *decimal.Decimal
	Status        *models.OrderStatus
	Notes         *string
	PaymentStatus *models.PaymentStatus
	PaymentMethod *models.PaymentMethod
}

type orderService struct {
	store     repository.Store
	projector TableProjector
	opts      OrderOptions
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(store repository.Store, projector TableProjector, opts OrderOptions, logger *zap.Logger) OrderService {
	return &orderService{
		store:     store,
		projector: projector,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput, actor models.Actor) (*models.Order, error) {
	if in.TableID == 0 {
		return nil, invalid("table", "table is required")
	}
	if err := validateLineItems(in.Items); err != nil {
		return nil, err
	}

	var orderID uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		table, err := tx.Tables().GetByID(ctx, in.TableID)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "Table", ID: in.TableID}
		}
		if err != nil {
			return errors.Wrap(err, "get table")
		}
		if table.Status != models.TableAvailable {
			s.logger.Warn("Creating order for a table that is not available",
				zap.Uint("table_id", table.ID),
				zap.String("table_status", string(table.Status)),
			)
		}

		items, err := priceItems(ctx, tx.MenuItems(), in.Items, nil)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderNumber:   models.NewOrderNumber(s.now()),
			TableID:       table.ID,
			Items:         items,
			Status:        models.OrderPending,
			PaymentStatus: models.PaymentPending,
			CreatedByID:   actor.UserID,
			Notes:         in.Notes,
		}
		order.Recalculate()

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		orderID = order.ID
		return s.projector.Occupy(ctx, tx.Tables(), table.ID, order.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created", zap.Uint("order_id", orderID), zap.Uint("table_id", in.TableID))
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return loadOrder(ctx, s.store.Orders(), id)
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status", "unknown order status %q", filter.Status)
	}
	return s.store.Orders().List(ctx, filter)
}

func (s *orderService) UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput, actor models.Actor) (*models.Order, error) {
	if in.Items != nil {
		if err := validateLineItems(in.Items); err != nil {
			return nil, err
		}
	}
	if in.PaymentStatus != nil && !in.PaymentStatus.Valid() {
		return nil, invalid("payment_status", "unknown payment status %q", *in.PaymentStatus)
	}
	if in.PaymentMethod != nil && !in.PaymentMethod.Valid() {
		return nil, invalid("payment_method", "unknown payment method %q", *in.PaymentMethod)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := loadOrder(ctx, tx.Orders(), id)
		if err != nil {
			return err
		}

		if in.Items != nil {
			items, err := priceItems(ctx, tx.MenuItems(), in.Items, order.SnapshotPrices())
			if err != nil {
				return err
			}
			order.Items = items
		}
		if in.Discount != nil {
			order.Discount = in.Discount.Round(2)
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		if in.PaymentStatus != nil {
			order.PaymentStatus = *in.PaymentStatus
		}
		if in.PaymentMethod != nil {
			order.PaymentMethod = *in.PaymentMethod
		}

		if in.Items != nil {
			order.Recalculate()
		} else {
			order.RefreshFinalAmount()
		}
		if err := checkDiscount(order); err != nil {
			return err
		}

		release := false
		if in.Status != nil {
			if release, err = s.applyStatus(order, *in.Status, actor); err != nil {
				return err
			}
		}

		if in.Items != nil {
			if err := tx.OrderItems().ReplaceForOrder(ctx, order.ID, order.Items); err != nil {
				return err
			}
		}
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}
		if release {
			return s.projector.ReleaseOrder(ctx, tx.Tables(), order.ResolveTableID(), order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, actor models.Actor) (*models.Order, error) {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := loadOrder(ctx, tx.Orders(), id)
		if err != nil {
			return err
		}
		release, err := s.applyStatus(order, status, actor)
		if err != nil {
			return err
		}
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}
		if release {
			return s.projector.ReleaseOrder(ctx, tx.Tables(), order.ResolveTableID(), order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated", zap.Uint("order_id", id), zap.String("status", string(status)))
	return s.GetOrder(ctx, id)
}

func (s *orderService) ProcessPayment(ctx context.Context, id uint, method models.PaymentMethod) (*models.Order, error) {
	if method == models.PaymentNone || !method.Valid() {
		return nil, invalid("payment_method", "payment method must be one of Cash, Card, Online")
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := loadOrder(ctx, tx.Orders(), id)
		if err != nil {
			return err
		}
		if s.opts.RejectRepeatPayment && order.PaymentStatus == models.PaymentPaid {
			return errors.Wrapf(ErrAlreadyPaid, "order %s", order.OrderNumber)
		}
		if !s.opts.PermissiveTransitions && !models.CanTransition(order.Status, models.OrderCompleted) {
			return errors.Wrapf(ErrInvalidTransition, "cannot pay %s order", order.Status)
		}

		release := !order.Status.ReleasesTable()
		order.PaymentStatus = models.PaymentPaid
		order.PaymentMethod = method
		order.Status = models.OrderCompleted
		order.RefreshFinalAmount()

		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}
		if !release {
			return nil
		}
		return s.projector.ReleaseOrder(ctx, tx.Tables(), order.ResolveTableID(), order.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment recorded", zap.Uint("order_id", id), zap.String("method", string(method)))
	return s.GetOrder(ctx, id)
}

// DeleteOrder releases the order's table whatever the order status is, then
// removes the order and its items.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := loadOrder(ctx, tx.Orders(), id)
		if err != nil {
			return err
		}
		if err := s.projector.Release(ctx, tx.Tables(), order.ResolveTableID()); err != nil {
			return err
		}
		if err := tx.Orders().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "Order", ID: id}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Order deleted", zap.Uint("order_id", id))
	return nil
}

// applyStatus moves order to status and reports whether the table must be
// released, which happens only when the order enters a terminal status. The
// first move to Served records the acting user as server.
func (s *orderService) applyStatus(order *models.Order, status models.OrderStatus, actor models.Actor) (bool, error) {
	if !status.Valid() {
		return false, invalid("status", "unknown order status %q", status)
	}
	if !s.opts.PermissiveTransitions && !models.CanTransition(order.Status, status) {
		return false, errors.Wrapf(ErrInvalidTransition, "%s to %s", order.Status, status)
	}
	if status == models.OrderServed && order.ServedByID == nil && actor.UserID != 0 {
		servedBy := actor.UserID
		order.ServedByID = &servedBy
	}
	release := status.ReleasesTable() && !order.Status.ReleasesTable()
	order.Status = status
	return release, nil
}

func loadOrder(ctx context.Context, orders repository.OrderRepository, id uint) (*models.Order, error) {
	order, err := orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Order", ID: id}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return order, nil
}

func validateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return invalid("items", "order must contain at least one item")
	}
	for i, item := range items {
		if item.MenuItemID == 0 {
			return invalid("items", "item %d has no menu item", i)
		}
		if item.Quantity < 1 {
			return invalid("items", "quantity must be at least 1 for menu item %d", item.MenuItemID)
		}
	}
	return nil
}

// priceItems builds order lines from inputs. Menu items found in snapshot keep
// the price already captured in the order; all others are priced from the
// catalog and must exist and be available.
func priceItems(ctx context.Context, menu repository.MenuRepository, inputs []LineItemInput, snapshot map[uint]decimal.Decimal) ([]models.OrderItem, error) {
	var lookup []uint
	seen := make(map[uint]bool)
	for _, in := range inputs {
		if _, ok := snapshot[in.MenuItemID]; ok || seen[in.MenuItemID] {
			continue
		}
		seen[in.MenuItemID] = true
		lookup = append(lookup, in.MenuItemID)
	}

	catalog := make(map[uint]models.MenuItem, len(lookup))
	if len(lookup) > 0 {
		found, err := menu.GetByIDs(ctx, lookup)
		if err != nil {
			return nil, errors.Wrap(err, "get menu items")
		}
		for _, m := range found {
			catalog[m.ID] = m
		}
	}

	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		price, ok := snapshot[in.MenuItemID]
		if !ok {
			m, found := catalog[in.MenuItemID]
			if !found {
				return nil, invalid("items", "menu item %d does not exist", in.MenuItemID)
			}
			if !m.IsAvailable {
				return nil, invalid("items", "menu item %q is not available", m.Name)
			}
			price = m.Price
		}
		items = append(items, models.OrderItem{
			MenuItemID: in.MenuItemID,
			Quantity:   in.Quantity,
			Price:      price,
			Notes:      in.Notes,
		})
	}
	return items, nil
}

func checkDiscount(order *models.Order) error {
	if order.Discount.IsNegative() {
		return invalid("discount", "discount cannot be negative")
	}
	if order.Discount.GreaterThan(order.TotalAmount.Add(order.Tax)) {
		return invalid("discount", "discount %s exceeds order amount %s",
			order.Discount.StringFixed(2), order.TotalAmount.Add(order.Tax).StringFixed(2))
	}
	return nil
}
