package analytics

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

// Weights of the four scoring components, summing to 100
const (
	recencyWeight      = 30.0
	engagementWeight   = 25.0
	revenueWeight      = 25.0
	completenessWeight = 20.0
)

const (
	recencyFullDays = 7
	recencyZeroDays = 90
	engagementCap   = 10
	rescorePageSize = 200
)

// ScoringService computes lead scores from touch recency, order
// history, revenue and profile completeness. Scores are persisted on
// the contact so lists can sort by them without recomputation.
type ScoringService struct {
	contactRepo crm.ContactRepository
	orderRepo   trade.OrderRepository
	cfg         config.AnalyticsConfig
	logger      *zap.Logger
}

// NewScoringService creates the lead scoring service
func NewScoringService(
	contactRepo crm.ContactRepository,
	orderRepo trade.OrderRepository,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) *ScoringService {
	return &ScoringService{
		contactRepo: contactRepo,
		orderRepo:   orderRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// ScoreContact recomputes and persists the score for one contact
func (s *ScoringService) ScoreContact(ctx context.Context, tenantID, contactID uuid.UUID) (*ScoreBreakdown, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.score(ctx, tenantID, contact)
	if err != nil {
		return nil, err
	}

	contact.SetLeadScore(breakdown.Score)
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// RescoreTenant walks the tenant's active contacts and refreshes
// scores that have gone stale. Returns the number of contacts scored.
func (s *ScoringService) RescoreTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	scored := 0
	filter := shared.Filter{Page: 1, PageSize: rescorePageSize, OrderBy: "created_at", OrderDir: "asc"}

	for {
		contacts, total, err := s.contactRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return scored, err
		}

		for i := range contacts {
			contact := &contacts[i]
			if !contact.IsActive {
				continue
			}
			if time.Since(contact.UpdatedAt) < s.cfg.ScoreStaleAfter {
				continue
			}

			breakdown, err := s.score(ctx, tenantID, contact)
			if err != nil {
				return scored, err
			}
			contact.SetLeadScore(breakdown.Score)
			if err := s.contactRepo.Update(ctx, contact); err != nil {
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					continue
				}
				return scored, err
			}
			scored++
		}

		if int64(filter.Page*filter.PageSize) >= total {
			break
		}
		filter.Page++
	}

	s.logger.Info("Lead rescoring finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("scored", scored))
	return scored, nil
}

// score computes the weighted breakdown without persisting it
func (s *ScoringService) score(ctx context.Context, tenantID uuid.UUID, contact *crm.Contact) (*ScoreBreakdown, error) {
	orderCount, err := s.orderRepo.CountByContact(ctx, tenantID, contact.ID)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.RevenueByContact(ctx, tenantID, contact.ID)
	if err != nil {
		return nil, err
	}

	recency := recencyScore(contact) * recencyWeight
	engagement := engagementScore(orderCount) * engagementWeight
	revenuePart := revenueScore(revenue) * revenueWeight
	completeness := completenessScore(contact) * completenessWeight

	total := recency + engagement + revenuePart + completeness
	return &ScoreBreakdown{
		ContactID:    contact.ID,
		Score:        decimal.NewFromFloat(total).Round(1),
		Recency:      recency,
		Engagement:   engagement,
		Revenue:      revenuePart,
		Completeness: completeness,
		ScoredAt:     time.Now(),
	}, nil
}

// recencyScore is 1.0 within a week of the last touch and decays
// linearly to 0 at ninety days. Contacts never touched score 0.
func recencyScore(contact *crm.Contact) float64 {
	last := contact.LastContactedAt
	if contact.LastActivityAt != nil && (last == nil || contact.LastActivityAt.After(*last)) {
		last = contact.LastActivityAt
	}
	if last == nil {
		return 0
	}

	days := time.Since(*last).Hours() / 24
	switch {
	case days <= recencyFullDays:
		return 1
	case days >= recencyZeroDays:
		return 0
	default:
		return 1 - (days-recencyFullDays)/(recencyZeroDays-recencyFullDays)
	}
}

// engagementScore saturates at ten orders
func engagementScore(orderCount int64) float64 {
	if orderCount >= engagementCap {
		return 1
	}
	return float64(orderCount) / engagementCap
}

// revenueScore grows logarithmically and saturates at 100k
func revenueScore(revenue decimal.Decimal) float64 {
	value, _ := revenue.Float64()
	if value <= 0 {
		return 0
	}
	return math.Min(1, math.Log10(1+value)/5)
}

// completenessScore is the filled fraction of the profile fields that
// matter for qualification.
func completenessScore(contact *crm.Contact) float64 {
	filled := 0
	checks := []bool{
		contact.Email != "",
		contact.Phone != "" || contact.Mobile != "",
		contact.CompanyName != "",
		contact.JobTitle != "",
		contact.Industry != "",
		contact.AnnualRevenue.IsPositive(),
		contact.LeadSource != "",
		contact.AddressLine1 != "" && contact.City != "",
	}
	for _, ok := range checks {
		if ok {
			filled++
		}
	}
	return float64(filled) / float64(len(checks))
}
