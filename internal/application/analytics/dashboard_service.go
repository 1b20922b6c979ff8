package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/cache"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

const lowStockDisplayLimit = 10

// DashboardService assembles the per-tenant dashboard snapshot from
// the CRM, catalog and order stores. Snapshots are cached in Redis so
// repeated loads within the TTL hit no database at all.
type DashboardService struct {
	contactRepo crm.ContactRepository
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	cache       ResultCache
	cfg         config.AnalyticsConfig
	logger      *zap.Logger
}

// NewDashboardService creates the dashboard service
func NewDashboardService(
	contactRepo crm.ContactRepository,
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	c ResultCache,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		contactRepo: contactRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cache:       c,
		cfg:         cfg,
		logger:      logger,
	}
}

func dashboardKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("analytics:dashboard:%s", tenantID)
}

// Snapshot returns the tenant dashboard, serving from cache when a
// fresh snapshot exists.
func (s *DashboardService) Snapshot(ctx context.Context, tenantID uuid.UUID) (*DashboardSnapshot, error) {
	if s.cache != nil {
		var cached DashboardSnapshot
		err := s.cache.Get(ctx, dashboardKey(tenantID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Dashboard cache read failed", zap.Error(err))
		}
	}

	return s.Refresh(ctx, tenantID)
}

// Refresh recomputes the snapshot and replaces the cached copy. The
// scheduler calls this periodically for active tenants.
func (s *DashboardService) Refresh(ctx context.Context, tenantID uuid.UUID) (*DashboardSnapshot, error) {
	snapshot, err := s.compute(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardKey(tenantID), snapshot, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

// Invalidate drops the cached snapshot for a tenant
func (s *DashboardService) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, dashboardKey(tenantID))
}

func (s *DashboardService) compute(ctx context.Context, tenantID uuid.UUID) (*DashboardSnapshot, error) {
	stages, err := s.contactRepo.CountByStage(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.orderRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -s.cfg.HistoryWindow)
	revenue, err := s.orderRepo.RevenueSince(ctx, tenantID, since)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.FindLowStockForTenant(ctx, tenantID, lowStockDisplayLimit)
	if err != nil {
		return nil, err
	}

	snapshot := &DashboardSnapshot{
		ContactsByStage: make(map[string]int64, len(stages)),
		OrdersByStatus:  make(map[string]int64, len(statuses)),
		Revenue:         make([]RevenuePointInfo, 0, len(revenue)),
		LowStock:        make([]LowStockItem, 0, len(lowStock)),
		GeneratedAt:     time.Now(),
	}
	for stage, count := range stages {
		snapshot.ContactsByStage[string(stage)] = count
	}
	for status, count := range statuses {
		snapshot.OrdersByStatus[string(status)] = count
	}
	for _, point := range revenue {
		snapshot.Revenue = append(snapshot.Revenue, RevenuePointInfo{
			Day:     point.Day,
			Revenue: point.Revenue,
			Orders:  point.Orders,
		})
	}
	for i := range lowStock {
		p := &lowStock[i]
		snapshot.LowStock = append(snapshot.LowStock, LowStockItem{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			OnHand:       p.QuantityOnHand,
			Available:    p.QuantityAvailable(),
			ReorderPoint: p.ReorderPoint,
		})
	}

	return snapshot, nil
}
