package services

import (
	"context"
	"fmt"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTopItems = 10
	maxTopItems     = 100
)

// ReportCache stores encoded report results for a limited time.
type ReportCache interface {
	GetReport(ctx context.Context, key string, dest interface{}) (bool, error)
	SetReport(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type ReportService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	Sales(ctx context.Context, q repository.SalesQuery) ([]models.SalesPoint, error)
	TopItems(ctx context.Context, limit int) ([]models.TopItem, error)
	OrderStatusStats(ctx context.Context) ([]models.StatusCount, error)
	RevenueByCategory(ctx context.Context) ([]models.CategoryRevenue, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	cache      ReportCache
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService returns a ReportService. A nil cache or a zero ttl
// disables caching.
func NewReportService(reportRepo repository.ReportRepository, cache ReportCache, ttl time.Duration, logger *zap.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *reportService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now()
	return cached(ctx, s, "dashboard:"+now.Format("2006-01-02"), func() (*models.DashboardStats, error) {
		return s.reportRepo.Dashboard(ctx, now)
	})
}

func (s *reportService) Sales(ctx context.Context, q repository.SalesQuery) ([]models.SalesPoint, error) {
	switch q.GroupBy {
	case "":
		q.GroupBy = models.GroupByDay
	case models.GroupByDay, models.GroupByMonth:
	default:
		return nil, invalid("group_by", "group_by must be day or month")
	}
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return nil, invalid("end_date", "end_date is before start_date")
	}

	key := fmt.Sprintf("sales:%s:%s:%s", q.GroupBy, dateKey(q.Start), dateKey(q.End))
	return cached(ctx, s, key, func() ([]models.SalesPoint, error) {
		return s.reportRepo.Sales(ctx, q)
	})
}

func (s *reportService) TopItems(ctx context.Context, limit int) ([]models.TopItem, error) {
	if limit <= 0 {
		limit = defaultTopItems
	}
	if limit > maxTopItems {
		limit = maxTopItems
	}
	return cached(ctx, s, fmt.Sprintf("top_items:%d", limit), func() ([]models.TopItem, error) {
		return s.reportRepo.TopItems(ctx, limit)
	})
}

func (s *reportService) OrderStatusStats(ctx context.Context) ([]models.StatusCount, error) {
	return cached(ctx, s, "order_status", func() ([]models.StatusCount, error) {
		return s.reportRepo.OrderStatusCounts(ctx)
	})
}

func (s *reportService) RevenueByCategory(ctx context.Context) ([]models.CategoryRevenue, error) {
	return cached(ctx, s, "revenue_by_category", func() ([]models.CategoryRevenue, error) {
		return s.reportRepo.RevenueByCategory(ctx)
	})
}

// cached serves key from the cache when possible and stores fresh results.
// Cache failures are logged and never fail the report.
func cached[T any](ctx context.Context, s *reportService, key string, load func() (T, error)) (T, error) {
	if s.cache == nil || s.ttl <= 0 {
		return load()
	}

	var hit T
	ok, err := s.cache.GetReport(ctx, key, &hit)
	if err != nil {
		s.logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return hit, nil
	}

	fresh, err := load()
	if err != nil {
		return fresh, err
	}
	if err := s.cache.SetReport(ctx, key, fresh, s.ttl); err != nil {
		s.logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
	return fresh, nil
}

func dateKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
