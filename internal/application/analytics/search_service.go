package analytics

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/cache"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

// SearchService runs a tenant-scoped search across contacts, products
// and orders. Each entity type contributes at most SearchResultCap
// hits, ranked by how many query terms they match. Results are cached
// per tenant and query under a short TTL.
type SearchService struct {
	contactRepo crm.ContactRepository
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	cache       ResultCache
	cfg         config.AnalyticsConfig
	logger      *zap.Logger
}

// NewSearchService creates the global search service
func NewSearchService(
	contactRepo crm.ContactRepository,
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	c ResultCache,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		contactRepo: contactRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cache:       c,
		cfg:         cfg,
		logger:      logger,
	}
}

// searchKey hashes the normalized query so arbitrary user input never
// lands in a Redis key.
func searchKey(tenantID uuid.UUID, query string) string {
	digest := sha256.Sum256([]byte(strings.ToLower(query)))
	return fmt.Sprintf("analytics:search:%s:%x", tenantID, digest[:16])
}

// Search runs the query against all three entity types
func (s *SearchService) Search(ctx context.Context, tenantID uuid.UUID, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search query must be at least 2 characters")
	}

	if s.cache != nil {
		var cached SearchResults
		err := s.cache.Get(ctx, searchKey(tenantID, query), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Search cache read failed", zap.Error(err))
		}
	}

	terms := strings.Fields(strings.ToLower(query))
	filter := shared.Filter{Page: 1, PageSize: s.cfg.SearchResultCap, Search: query}

	results := &SearchResults{
		Query:    query,
		Contacts: make([]SearchHit, 0),
		Products: make([]SearchHit, 0),
		Orders:   make([]SearchHit, 0),
	}

	contacts, _, err := s.contactRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		c := &contacts[i]
		results.Contacts = append(results.Contacts, SearchHit{
			Type:     "contact",
			ID:       c.ID,
			Title:    c.DisplayName(),
			Subtitle: c.Email,
			Score:    termHits(terms, c.DisplayName(), c.Email, c.CompanyName),
		})
	}

	products, _, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		results.Products = append(results.Products, SearchHit{
			Type:     "product",
			ID:       p.ID,
			Title:    p.Name,
			Subtitle: p.SKU,
			Score:    termHits(terms, p.Name, p.SKU, p.Category, p.Brand),
		})
	}

	orders, _, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		o := &orders[i]
		results.Orders = append(results.Orders, SearchHit{
			Type:     "order",
			ID:       o.ID,
			Title:    o.OrderNumber,
			Subtitle: string(o.Type) + " / " + string(o.Status),
			Score:    termHits(terms, o.OrderNumber, string(o.Type)),
		})
	}

	rankHits(results.Contacts)
	rankHits(results.Products)
	rankHits(results.Orders)

	if s.cache != nil {
		if err := s.cache.Set(ctx, searchKey(tenantID, query), results, s.cfg.SearchCacheTTL); err != nil {
			s.logger.Warn("Search cache write failed", zap.Error(err))
		}
	}
	return results, nil
}

// termHits counts how many query terms appear in the given fields
func termHits(terms []string, fields ...string) int {
	haystack := strings.ToLower(strings.Join(fields, " "))
	hits := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			hits++
		}
	}
	return hits
}

// rankHits orders hits by score, keeping ties stable
func rankHits(hits []SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
}
