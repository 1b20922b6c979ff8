package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants to fan maintenance jobs out to
type TenantProvider interface {
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// TriggerConfig holds the cadence for each recurring job type
type TriggerConfig struct {
	// SnapshotInterval is the cadence for dashboard snapshot refreshes
	// and lead rescoring.
	SnapshotInterval time.Duration
	// LowStockInterval is the cadence for low stock scans.
	LowStockInterval time.Duration
}

// DefaultTriggerConfig returns default trigger cadences
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		SnapshotInterval: 15 * time.Minute,
		LowStockInterval: time.Hour,
	}
}

// IntervalTrigger periodically enqueues maintenance jobs for every
// active tenant.
type IntervalTrigger struct {
	config    TriggerConfig
	scheduler *Scheduler
	tenants   TenantProvider
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config TriggerConfig, sched *Scheduler, tenants TenantProvider, logger *zap.Logger) *IntervalTrigger {
	if config.SnapshotInterval <= 0 {
		config.SnapshotInterval = DefaultTriggerConfig().SnapshotInterval
	}
	if config.LowStockInterval <= 0 {
		config.LowStockInterval = DefaultTriggerConfig().LowStockInterval
	}
	return &IntervalTrigger{
		config:    config,
		scheduler: sched,
		tenants:   tenants,
		logger:    logger,
	}
}

// Start launches the trigger loops
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(2)
	go t.runLoop(ctx, t.config.SnapshotInterval, []JobType{JobTypeSnapshotRefresh, JobTypeLeadRescore})
	go t.runLoop(ctx, t.config.LowStockInterval, []JobType{JobTypeLowStockScan})

	t.logger.Info("Maintenance trigger started",
		zap.Duration("snapshot_interval", t.config.SnapshotInterval),
		zap.Duration("low_stock_interval", t.config.LowStockInterval),
	)
	return nil
}

// Stop stops the trigger loops
func (t *IntervalTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	t.logger.Info("Maintenance trigger stopped")
}

func (t *IntervalTrigger) runLoop(ctx context.Context, interval time.Duration, jobTypes []JobType) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.enqueueForAllTenants(ctx, jobTypes)
		}
	}
}

// enqueueForAllTenants submits one job per type per active tenant. A
// full queue drops the tick; the next tick covers the same ground.
func (t *IntervalTrigger) enqueueForAllTenants(ctx context.Context, jobTypes []JobType) {
	tenantIDs, err := t.tenants.FindActiveIDs(ctx)
	if err != nil {
		t.logger.Error("Failed to list tenants for maintenance jobs", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		for _, jobType := range jobTypes {
			if err := t.scheduler.SubmitForTenant(tenantID, jobType); err != nil {
				t.logger.Warn("Failed to submit maintenance job",
					zap.String("tenant_id", tenantID.String()),
					zap.String("job_type", string(jobType)),
					zap.Error(err),
				)
			}
		}
	}
}
