package services

import (
	"context"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// TableProjector applies the table side effects of order lifecycle events.
// Callers pass the TableRepository of their open transaction so the table write
// commits or rolls back together with the order write.
type TableProjector interface {
	Occupy(ctx context.Context, tables repository.TableRepository, tableID, orderID uint) error
	Release(ctx context.Context, tables repository.TableRepository, tableID uint) error
	// ReleaseOrder frees the table for an order that finished. A table already
	// taken by another order is left alone.
	ReleaseOrder(ctx context.Context, tables repository.TableRepository, tableID, orderID uint) error
}

type tableProjector struct {
	logger *zap.Logger
}

func NewTableProjector(logger *zap.Logger) TableProjector {
	return &tableProjector{logger: logger}
}

func (p *tableProjector) Occupy(ctx context.Context, tables repository.TableRepository, tableID, orderID uint) error {
	err := tables.SetOccupancy(ctx, tableID, models.TableOccupied, &orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "Table", ID: tableID}
	}
	if err != nil {
		return errors.Wrap(err, "occupy table")
	}
	p.logger.Debug("Table occupied", zap.Uint("table_id", tableID), zap.Uint("order_id", orderID))
	return nil
}

// Release marks the table Available and clears its current order. A table that
// no longer exists has nothing to release.
func (p *tableProjector) Release(ctx context.Context, tables repository.TableRepository, tableID uint) error {
	err := tables.SetOccupancy(ctx, tableID, models.TableAvailable, nil)
	if errors.Is(err, repository.ErrNotFound) {
		p.logger.Warn("Released table does not exist", zap.Uint("table_id", tableID))
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "release table")
	}
	p.logger.Debug("Table released", zap.Uint("table_id", tableID))
	return nil
}

func (p *tableProjector) ReleaseOrder(ctx context.Context, tables repository.TableRepository, tableID, orderID uint) error {
	released, err := tables.ReleaseForOrder(ctx, tableID, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		p.logger.Warn("Released table does not exist", zap.Uint("table_id", tableID))
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "release table")
	}
	if !released {
		p.logger.Debug("Table held by another order", zap.Uint("table_id", tableID), zap.Uint("order_id", orderID))
		return nil
	}
	p.logger.Debug("Table released", zap.Uint("table_id", tableID), zap.Uint("order_id", orderID))
	return nil
}
