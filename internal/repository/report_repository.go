package repository

import (
	"context"
	"restaurant_manager/internal/models"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesQuery struct {
	Start   *time.Time
	End     *time.Time // inclusive calendar day
	GroupBy models.SalesGrouping
}

// ReportRepository runs read-only aggregations over orders, tables and staff.
type ReportRepository interface {
	Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error)
	Sales(ctx context.Context, q SalesQuery) ([]models.SalesPoint, error)
	TopItems(ctx context.Context, limit int) ([]models.TopItem, error)
	OrderStatusCounts(ctx context.Context) ([]models.StatusCount, error)
	RevenueByCategory(ctx context.Context) ([]models.CategoryRevenue, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	orders := func() *gorm.DB { return db.Model(&models.Order{}) }
	paid := func() *gorm.DB { return orders().Where("payment_status = ?", models.PaymentPaid) }
	inToday := func(q *gorm.DB) *gorm.DB {
		return q.Where("created_at >= ? AND created_at < ?", today, tomorrow)
	}

	var stats models.DashboardStats
	steps := []struct {
		name string
		run  func() error
	}{
		{"today orders", func() error { return inToday(orders()).Count(&stats.TodayStats.Orders).Error }},
		{"today revenue", func() error { return sumFinal(inToday(paid()), &stats.TodayStats.Revenue) }},
		{"total orders", func() error { return orders().Count(&stats.TotalStats.Orders).Error }},
		{"total revenue", func() error { return sumFinal(paid(), &stats.TotalStats.Revenue) }},
		{"pending orders", func() error {
			return orders().Where("status NOT IN ?", []models.OrderStatus{models.OrderCompleted, models.OrderCancelled}).
				Count(&stats.TotalStats.PendingOrders).Error
		}},
		{"paid orders", func() error { return paid().Count(&stats.TotalStats.PaidOrders).Error }},
		{"active tables", func() error {
			return db.Model(&models.Table{}).Where("status <> ?", models.TableAvailable).Count(&stats.Tables.Active).Error
		}},
		{"total tables", func() error { return db.Model(&models.Table{}).Count(&stats.Tables.Total).Error }},
		{"staff", func() error { return db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.Staff).Error }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, errors.Wrap(err, step.name)
		}
	}
	return &stats, nil
}

func sumFinal(q *gorm.DB, dst *decimal.Decimal) error {
	var sum decimal.NullDecimal
	if err := q.Select("SUM(final_amount)").Row().Scan(&sum); err != nil {
		return err
	}
	*dst = decimal.Zero
	if sum.Valid {
		*dst = sum.Decimal
	}
	return nil
}

// Sales groups paid orders by day or month, newest period first.
func (r *reportRepository) Sales(ctx context.Context, q SalesQuery) ([]models.SalesPoint, error) {
	db := r.db.WithContext(ctx).Model(&models.Order{}).
		Select(periodExpr(r.db.Dialector.Name(), q.GroupBy)+" AS period, SUM(final_amount) AS total_sales, "+
			"COUNT(*) AS order_count, AVG(final_amount) AS average_order_value").
		Where("payment_status = ?", models.PaymentPaid)
	if q.Start != nil {
		db = db.Where("created_at >= ?", *q.Start)
	}
	if q.End != nil {
		db = db.Where("created_at < ?", q.End.AddDate(0, 0, 1))
	}

	var rows []struct {
		Period            string
		TotalSales        decimal.Decimal
		OrderCount        int64
		AverageOrderValue decimal.Decimal
	}
	if err := db.Group("period").Order("period DESC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "sales report")
	}

	points := make([]models.SalesPoint, 0, len(rows))
	for _, row := range rows {
		period, err := time.Parse(time.DateOnly, row.Period)
		if err != nil {
			return nil, errors.Wrapf(err, "parse sales period %q", row.Period)
		}
		points = append(points, models.SalesPoint{
			Period:            period,
			TotalSales:        row.TotalSales,
			OrderCount:        row.OrderCount,
			AverageOrderValue: row.AverageOrderValue,
		})
	}
	return points, nil
}

// periodExpr renders created_at truncated to the grouping as YYYY-MM-DD.
func periodExpr(dialect string, groupBy models.SalesGrouping) string {
	month := groupBy == models.GroupByMonth
	if dialect == "sqlite" {
		if month {
			return "strftime('%Y-%m-01', created_at)"
		}
		return "strftime('%Y-%m-%d', created_at)"
	}
	if month {
		return "to_char(date_trunc('month', created_at), 'YYYY-MM-DD')"
	}
	return "to_char(date_trunc('day', created_at), 'YYYY-MM-DD')"
}

func (r *reportRepository) TopItems(ctx context.Context, limit int) ([]models.TopItem, error) {
	var items []models.TopItem
	err := r.db.WithContext(ctx).Table("order_items AS oi").
		Select("oi.menu_item_id, mi.name, mi.category, "+
			"SUM(oi.quantity) AS total_quantity, SUM(oi.price * oi.quantity) AS total_revenue").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN menu_items mi ON mi.id = oi.menu_item_id").
		Where("o.status <> ?", models.OrderCancelled).
		Group("oi.menu_item_id, mi.name, mi.category").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "top items")
	}
	return items, nil
}

func (r *reportRepository) OrderStatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "order status counts")
	}
	return counts, nil
}

func (r *reportRepository) RevenueByCategory(ctx context.Context) ([]models.CategoryRevenue, error) {
	var rows []models.CategoryRevenue
	err := r.db.WithContext(ctx).Table("order_items AS oi").
		Select("mi.category, SUM(oi.price * oi.quantity) AS revenue, SUM(oi.quantity) AS quantity").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN menu_items mi ON mi.id = oi.menu_item_id").
		Where("o.payment_status = ?", models.PaymentPaid).
		Group("mi.category").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "revenue by category")
	}
	return rows, nil
}
