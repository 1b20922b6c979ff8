package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/scheduler"
)

// lowStockScanLimit caps how many products a single scan reports
const lowStockScanLimit = 200

// TenantRunner opens a tenant-bound database transaction around fn.
// Scheduled jobs run outside any HTTP request, so they need their own
// transaction to satisfy the row level security policies.
type TenantRunner interface {
	RunAs(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context) error) error
}

// MaintenanceService executes the recurring per-tenant jobs the
// scheduler dispatches: snapshot refreshes, low stock scans and lead
// rescoring.
type MaintenanceService struct {
	dashboards *DashboardService
	scoring    *ScoringService
	products   catalog.ProductRepository
	events     shared.EventPublisher
	runner     TenantRunner
	logger     *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	dashboards *DashboardService,
	scoring *ScoringService,
	products catalog.ProductRepository,
	events shared.EventPublisher,
	runner TenantRunner,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		dashboards: dashboards,
		scoring:    scoring,
		products:   products,
		events:     events,
		runner:     runner,
		logger:     logger,
	}
}

// Execute implements scheduler.JobExecutor. The whole job runs inside
// one tenant-bound transaction so every repository it touches sees the
// row level security GUC.
func (s *MaintenanceService) Execute(ctx context.Context, job *scheduler.Job) error {
	return s.runner.RunAs(ctx, job.TenantID, func(ctx context.Context) error {
		return s.execute(ctx, job)
	})
}

func (s *MaintenanceService) execute(ctx context.Context, job *scheduler.Job) error {
	switch job.Type {
	case scheduler.JobTypeSnapshotRefresh:
		_, err := s.dashboards.Refresh(ctx, job.TenantID)
		return err

	case scheduler.JobTypeLowStockScan:
		return s.scanLowStock(ctx, job)

	case scheduler.JobTypeLeadRescore:
		rescored, err := s.scoring.RescoreTenant(ctx, job.TenantID)
		if err != nil {
			return err
		}
		s.logger.Debug("Lead rescore completed",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Int("rescored", rescored))
		return nil

	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// scanLowStock republishes a low stock alert for every product still
// at or below its reorder point, so dashboards that missed the
// original crossing event catch up.
func (s *MaintenanceService) scanLowStock(ctx context.Context, job *scheduler.Job) error {
	products, err := s.products.FindLowStockForTenant(ctx, job.TenantID, lowStockScanLimit)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	events := make([]shared.DomainEvent, 0, len(products))
	for i := range products {
		events = append(events, catalog.NewLowStockEvent(&products[i]))
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		return err
	}

	s.logger.Info("Low stock scan completed",
		zap.String("tenant_id", job.TenantID.String()),
		zap.Int("products", len(products)))

	return s.dashboards.Invalidate(ctx, job.TenantID)
}

var _ scheduler.JobExecutor = (*MaintenanceService)(nil)
