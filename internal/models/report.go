package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodStats struct {
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TotalStats struct {
	Orders        int64           `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	PendingOrders int64           `json:"pending_orders"`
	PaidOrders    int64           `json:"paid_orders"`
}

type TableStats struct {
	Active int64 `json:"active"`
	Total  int64 `json:"total"`
}

type DashboardStats struct {
	TodayStats PeriodStats `json:"today_stats"`
	TotalStats TotalStats  `json:"total_stats"`
	Tables     TableStats  `json:"tables"`
	Staff      int64       `json:"staff"`
}

type SalesGrouping string

const (
	GroupByDay   SalesGrouping = "day"
	GroupByMonth SalesGrouping = "month"
)

type SalesPoint struct {
	Period            time.Time       `json:"period"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	OrderCount        int64           `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type TopItem struct {
	MenuItemID    uint            `json:"menu_item_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int64           `json:"quantity"`
}
