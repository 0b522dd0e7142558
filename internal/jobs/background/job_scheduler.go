package background

import (
	"context"
	"log"
	"sync"
	"time"

	"brewtrack/internal/analytics"
	"brewtrack/internal/models"
	"brewtrack/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

const (
	statisticsRefreshInterval = 5 * time.Minute
	staleOrderSweepInterval   = 15 * time.Minute
	staleOrderAge             = 30 * time.Minute
)

// JobScheduler manages the background jobs that keep reporting data warm
// and flag orders stuck in the kitchen.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.Service
	orderRepo    repositories.OrderRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(analyticsSvc *analytics.Service, orderRepo repositories.OrderRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		orderRepo:    orderRepo,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(statisticsRefreshInterval),
		gocron.NewTask(js.refreshStatistics, context.Background()),
		gocron.WithName("order-statistics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create statistics refresh job: %v", err)
	} else {
		js.jobs["statistics"] = statsJob
	}

	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(staleOrderSweepInterval),
		gocron.NewTask(js.sweepStaleOrders, context.Background()),
		gocron.WithName("stale-order-sweep"),
	)
	if err != nil {
		log.Printf("Failed to create stale order sweep job: %v", err)
	} else {
		js.jobs["stale-orders"] = sweepJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshStatistics recomputes the order statistics snapshot so admin
// dashboard reads stay warm.
func (js *JobScheduler) refreshStatistics(ctx context.Context) error {
	if _, err := js.analyticsSvc.Refresh(ctx); err != nil {
		log.Printf("Statistics refresh failed: %v", err)
		return err
	}
	log.Printf("Order statistics snapshot refreshed")
	return nil
}

// sweepStaleOrders logs orders that have sat in pending or preparing for
// too long. Staff act on the log; the sweep never mutates orders.
func (js *JobScheduler) sweepStaleOrders(ctx context.Context) error {
	cutoff := time.Now().Add(-staleOrderAge)

	for _, status := range []string{models.StatusPending, models.StatusPreparing} {
		orders, err := js.orderRepo.ListByStatus(ctx, status, 200, 0)
		if err != nil {
			log.Printf("Stale order sweep failed for status %s: %v", status, err)
			return err
		}
		for _, order := range orders {
			if order.CreatedAt.Before(cutoff) {
				log.Printf("ALERT: order %s has been %s since %s", order.ID, status, order.CreatedAt.Format(time.RFC3339))
			}
		}
	}

	return nil
}

// JobStatus returns the names of the registered jobs.
func (js *JobScheduler) JobStatus() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
