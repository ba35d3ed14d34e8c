package models

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is encoded as JSON numbers, not quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TaxRate is applied to the order total on every recomputation.
var TaxRate = decimal.RequireFromString("0.10")

type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderNumber   string          `json:"order_number" gorm:"uniqueIndex;not null"`
	TableID       uint            `json:"table_id" gorm:"not null;index"`
	Table         *Table          `json:"table,omitempty" gorm:"foreignKey:TableID"`
	Items         []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(16);not null;index"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Tax           decimal.Decimal `json:"tax" gorm:"type:numeric(12,3);not null"`
	Discount      decimal.Decimal `json:"discount" gorm:"type:numeric(12,2);not null"`
	FinalAmount   decimal.Decimal `json:"final_amount" gorm:"type:numeric(12,3);not null"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:varchar(16);not null;index"`
	PaymentMethod PaymentMethod   `json:"payment_method" gorm:"type:varchar(16)"`
	CreatedByID   uint            `json:"created_by_id" gorm:"not null"`
	CreatedBy     *User           `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	ServedByID    *uint           `json:"served_by_id"`
	ServedBy      *User           `json:"served_by,omitempty" gorm:"foreignKey:ServedByID"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null;index"`
	MenuItem   *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"` // snapshot at order time
	Notes      string          `json:"notes"`
}

// LineTotal is the unit price snapshot times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderReady     OrderStatus = "Ready"
	OrderServed    OrderStatus = "Served"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// pipeline positions; Cancelled sits outside the pipeline.
var orderStage = map[OrderStatus]int{
	OrderPending:   0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderServed:    3,
	OrderCompleted: 4,
}

func (s OrderStatus) Valid() bool {
	if s == OrderCancelled {
		return true
	}
	_, ok := orderStage[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// ReleasesTable reports whether reaching s frees the order's table.
func (s OrderStatus) ReleasesTable() bool {
	return s.Terminal()
}

// CanTransition reports whether an order in status from may move to status to.
// Re-applying the current status is always allowed. Terminal orders cannot move,
// Cancelled is reachable from any open status, and the pipeline only moves
// forward, though stages may be skipped.
func CanTransition(from, to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return orderStage[to] > orderStage[from]
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentNone   PaymentMethod = ""
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentOnline PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentNone, PaymentCash, PaymentCard, PaymentOnline:
		return true
	}
	return false
}

// Recalculate derives total and tax from the current items and refreshes the
// final amount.
func (o *Order) Recalculate() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	o.TotalAmount = total
	o.Tax = total.Mul(TaxRate)
	o.RefreshFinalAmount()
}

// RefreshFinalAmount recomputes the final amount from total, tax and discount.
func (o *Order) RefreshFinalAmount() {
	o.FinalAmount = o.TotalAmount.Add(o.Tax).Sub(o.Discount)
}

// ResolveTableID returns the owning table's id whether the order carries only
// the foreign key or a loaded Table record.
func (o *Order) ResolveTableID() uint {
	if o.Table != nil && o.Table.ID != 0 {
		return o.Table.ID
	}
	return o.TableID
}

// SnapshotPrices maps menu item ids to the unit price already captured in
// this order.
func (o *Order) SnapshotPrices() map[uint]decimal.Decimal {
	prices := make(map[uint]decimal.Decimal, len(o.Items))
	for _, item := range o.Items {
		if _, ok := prices[item.MenuItemID]; !ok {
			prices[item.MenuItemID] = item.Price
		}
	}
	return prices
}

// NewOrderNumber returns "ORD" followed by the last six digits of the current
// unix millisecond clock and a three-digit random suffix.
func NewOrderNumber(now time.Time) string {
	return FormatOrderNumber(now, rand.IntN(1000))
}

func FormatOrderNumber(now time.Time, suffix int) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) < 6 {
		ms = strings.Repeat("0", 6-len(ms)) + ms
	}
	return fmt.Sprintf("ORD%s%03d", ms[len(ms)-6:], suffix%1000)
}
