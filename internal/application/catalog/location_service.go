package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

// LocationService manages the tenant's stock locations
type LocationService struct {
	locationRepo catalog.StockLocationRepository
	logger       *zap.Logger
}

// NewLocationService creates the stock location service
func NewLocationService(locationRepo catalog.StockLocationRepository, logger *zap.Logger) *LocationService {
	return &LocationService{locationRepo: locationRepo, logger: logger}
}

// Create adds a stock location. The tenant's first location becomes the
// default automatically.
func (s *LocationService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, input LocationInput) (*LocationInfo, error) {
	taken, err := s.locationRepo.ExistsByCodeForTenant(ctx, tenantID, input.Code)
	if err != nil {
		s.logger.Error("Location code lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check location code")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A location with this code already exists")
	}

	location, err := catalog.NewStockLocation(tenantID, input.Name, input.Code,
		catalog.LocationType(input.Type))
	if err != nil {
		return nil, err
	}
	location.SetCreatedBy(createdBy)
	if err := location.UpdateDetails(input.Name, input.AddressLine1, input.AddressLine2,
		input.City, input.State, input.PostalCode, input.Country); err != nil {
		return nil, err
	}

	if _, err := s.locationRepo.FindDefaultForTenant(ctx, tenantID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		location.MarkDefault()
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		s.logger.Error("Failed to save location", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create location")
	}

	info := NewLocationInfo(location)
	return &info, nil
}

// Get returns a single location
func (s *LocationService) Get(ctx context.Context, tenantID, id uuid.UUID) (*LocationInfo, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	info := NewLocationInfo(location)
	return &info, nil
}

// List returns a page of locations
func (s *LocationService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[LocationInfo], error) {
	locations, total, err := s.locationRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[LocationInfo]{}, err
	}

	infos := make([]LocationInfo, 0, len(locations))
	for i := range locations {
		infos = append(infos, NewLocationInfo(&locations[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

// Update changes a location's name and address
func (s *LocationService) Update(ctx context.Context, tenantID, id uuid.UUID, input LocationInput) (*LocationInfo, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := location.UpdateDetails(input.Name, input.AddressLine1, input.AddressLine2,
		input.City, input.State, input.PostalCode, input.Country); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}

	info := NewLocationInfo(location)
	return &info, nil
}

// SetDefault makes the location the tenant default
func (s *LocationService) SetDefault(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.locationRepo.SetDefault(ctx, tenantID, id)
}

// Delete removes a location. The default location cannot be deleted.
func (s *LocationService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if location.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "The default location cannot be deleted")
	}
	return s.locationRepo.Delete(ctx, tenantID, id)
}
