package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// LocationType classifies where stock physically sits
type LocationType string

const (
	LocationTypeWarehouse LocationType = "warehouse"
	LocationTypeStore     LocationType = "store"
	LocationTypeSupplier  LocationType = "supplier"
	LocationTypeCustomer  LocationType = "customer"
)

// StockLocation is a place stock can be held or moved through
type StockLocation struct {
	shared.TenantAggregateRoot
	Name         string
	Code         string
	Type         LocationType
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	IsDefault    bool
	IsActive     bool
}

// NewStockLocation creates a new stock location aggregate
func NewStockLocation(tenantID uuid.UUID, name, code string, locationType LocationType) (*StockLocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Location name is required")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Location code is required")
	}
	switch locationType {
	case LocationTypeWarehouse, LocationTypeStore, LocationTypeSupplier, LocationTypeCustomer:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown location type")
	}

	return &StockLocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		Type:                locationType,
		IsActive:            true,
	}, nil
}

// UpdateDetails updates name and address fields
func (l *StockLocation) UpdateDetails(name, line1, line2, city, state, postalCode, country string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Location name is required")
	}
	l.Name = name
	l.AddressLine1 = line1
	l.AddressLine2 = line2
	l.City = city
	l.State = state
	l.PostalCode = postalCode
	l.Country = country
	l.Touch()
	return nil
}

// MarkDefault flags this location as the tenant default. The
// repository clears the flag on the previous default in the same
// transaction.
func (l *StockLocation) MarkDefault() {
	l.IsDefault = true
	l.Touch()
}

// ClearDefault removes the default flag
func (l *StockLocation) ClearDefault() {
	l.IsDefault = false
	l.Touch()
}

// Deactivate hides the location from new stock moves
func (l *StockLocation) Deactivate() error {
	if l.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "The default location cannot be deactivated")
	}
	l.IsActive = false
	l.Touch()
	return nil
}

// Activate re-enables the location
func (l *StockLocation) Activate() {
	l.IsActive = true
	l.Touch()
}
