package analytics

import (
	"context"
	"log"
	"time"

	"brewtrack/internal/caching"
	"brewtrack/internal/common"
	"brewtrack/internal/models"
	"brewtrack/internal/repositories"

	"golang.org/x/sync/errgroup"
)

const statisticsCacheTTL = 5 * time.Minute

// Service computes the dashboard statistics over persisted orders. The four
// aggregates are independent queries and run concurrently; a failure in any
// one fails the whole call.
type Service struct {
	orderRepo repositories.OrderRepository
	cacheSvc  caching.CacheService
}

func NewService(orderRepo repositories.OrderRepository, cacheSvc caching.CacheService) *Service {
	return &Service{
		orderRepo: orderRepo,
		cacheSvc:  cacheSvc,
	}
}

// Statistics returns the cached snapshot when fresh, otherwise recomputes it.
func (s *Service) Statistics(ctx context.Context) (*models.OrderStatistics, error) {
	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetStatistics(ctx)
		if err != nil {
			log.Printf("WARN: statistics cache read failed: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the statistics and repopulates the cache.
func (s *Service) Refresh(ctx context.Context) (*models.OrderStatistics, error) {
	stats := &models.OrderStatistics{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.orderRepo.CountsByStatus(gctx)
		if err != nil {
			return err
		}
		stats.CountsByStatus = counts
		return nil
	})
	g.Go(func() error {
		revenue, err := s.orderRepo.RevenueExcludingCancelled(gctx)
		if err != nil {
			return err
		}
		stats.TotalRevenue = revenue
		return nil
	})
	g.Go(func() error {
		count, err := s.orderRepo.CountToday(gctx)
		if err != nil {
			return err
		}
		stats.OrdersToday = count
		return nil
	})
	g.Go(func() error {
		top, err := s.orderRepo.TopSellingProduct(gctx)
		if err != nil {
			return err
		}
		stats.TopProduct = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, &common.AggregationError{Err: err}
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetStatistics(ctx, stats, statisticsCacheTTL); err != nil {
			log.Printf("WARN: statistics cache write failed: %v", err)
		}
	}
	return stats, nil
}
