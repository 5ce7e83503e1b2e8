package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/raditya/storefront-api/internal/model"
	"github.com/raditya/storefront-api/internal/repository"
)

const (
	statsCacheTTL          = 60 * time.Second
	StatsOverviewCacheKey  = "stats:overview"
	StatsDashboardCacheKey = "stats:dashboard"
)

// StatsService serves read-side aggregates. Overview and dashboard are the
// hot endpoints, so they sit behind a short Redis cache that the order-events
// worker invalidates on writes.
type StatsService struct {
	statsRepo   repository.StatsRepository
	redisClient *redis.Client
}

func NewStatsService(statsRepo repository.StatsRepository, redisClient *redis.Client) *StatsService {
	return &StatsService{statsRepo: statsRepo, redisClient: redisClient}
}

func (s *StatsService) Overview(ctx context.Context) (*model.StatsOverview, error) {
	if cached := cacheGet[model.StatsOverview](ctx, s.redisClient, StatsOverviewCacheKey); cached != nil {
		return cached, nil
	}
	overview, err := s.statsRepo.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}
	cacheSet(ctx, s.redisClient, StatsOverviewCacheKey, overview)
	return overview, nil
}

func (s *StatsService) Dashboard(ctx context.Context) (*model.StatsDashboard, error) {
	if cached := cacheGet[model.StatsDashboard](ctx, s.redisClient, StatsDashboardCacheKey); cached != nil {
		return cached, nil
	}
	dashboard, err := s.statsRepo.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats dashboard: %w", err)
	}
	cacheSet(ctx, s.redisClient, StatsDashboardCacheKey, dashboard)
	return dashboard, nil
}

func (s *StatsService) Users(ctx context.Context) (*model.UserStats, error) {
	return s.statsRepo.Users(ctx)
}

func (s *StatsService) Products(ctx context.Context) (*model.ProductStats, error) {
	return s.statsRepo.Products(ctx)
}

func (s *StatsService) Orders(ctx context.Context) (*model.OrderStats, error) {
	return s.statsRepo.Orders(ctx)
}

func (s *StatsService) OrderDetails(ctx context.Context) (*model.OrderDetailStats, error) {
	return s.statsRepo.OrderDetails(ctx)
}

func (s *StatsService) Revenue(ctx context.Context, start, end time.Time) (*model.RevenueReport, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, -1, 0)
	}
	return s.statsRepo.Revenue(ctx, start, end)
}

func cacheGet[T any](ctx context.Context, client *redis.Client, key string) *T {
	if client == nil {
		return nil
	}
	cached, err := client.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var value T
	if json.Unmarshal([]byte(cached), &value) != nil {
		return nil
	}
	return &value
}

func cacheSet(ctx context.Context, client *redis.Client, key string, value any) {
	if client == nil {
		return
	}
	if data, err := json.Marshal(value); err == nil {
		client.Set(ctx, key, data, statsCacheTTL)
	}
}
