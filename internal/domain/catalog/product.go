package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// ProductType classifies what kind of thing is being sold
type ProductType string

const (
	ProductTypeProduct ProductType = "product"
	ProductTypeService ProductType = "service"
	ProductTypeBundle  ProductType = "bundle"
	ProductTypeDigital ProductType = "digital"
)

// ProductStatus tracks catalog visibility
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a sellable item in the tenant's catalog. Quantity fields
// are caches maintained by the inventory ledger; they are never edited
// directly through the API.
type Product struct {
	shared.TenantAggregateRoot
	Name             string
	SKU              string
	Barcode          string
	Description      string
	Type             ProductType
	Status           ProductStatus
	Category         string
	Brand            string
	CostPrice        decimal.Decimal
	SalePrice        decimal.Decimal
	Currency         string
	WeightKg         decimal.Decimal
	LengthCm         decimal.Decimal
	WidthCm          decimal.Decimal
	HeightCm         decimal.Decimal
	TrackInventory   bool
	QuantityOnHand   decimal.Decimal
	QuantityReserved decimal.Decimal
	ReorderPoint     decimal.Decimal
	ReorderQuantity  decimal.Decimal
	ImageURLs        []string
	Properties       map[string]any
	ExternalRefs     map[string]any
}

// NewProduct creates a new product aggregate
func NewProduct(tenantID uuid.UUID, name, sku string, productType ProductType, salePrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	sku = NormalizeSKU(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "SKU is required")
	}
	switch productType {
	case ProductTypeProduct, ProductTypeService, ProductTypeBundle, ProductTypeDigital:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown product type")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale price cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		SKU:                 sku,
		Type:                productType,
		Status:              ProductStatusActive,
		SalePrice:           salePrice,
		CostPrice:           decimal.Zero,
		Currency:            "USD",
		TrackInventory:      productType == ProductTypeProduct,
		QuantityOnHand:      decimal.Zero,
		QuantityReserved:    decimal.Zero,
		ReorderPoint:        decimal.Zero,
		ReorderQuantity:     decimal.Zero,
		ImageURLs:           make([]string, 0),
		Properties:          make(map[string]any),
		ExternalRefs:        make(map[string]any),
	}, nil
}

// NormalizeSKU uppercases and trims a SKU
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// QuantityAvailable is on-hand minus reserved, floored at zero
func (p *Product) QuantityAvailable() decimal.Decimal {
	available := p.QuantityOnHand.Sub(p.QuantityReserved)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// IsLowStock reports whether available stock has fallen to or below
// the reorder point. Products that don't track inventory never report
// low stock.
func (p *Product) IsLowStock() bool {
	if !p.TrackInventory {
		return false
	}
	return p.QuantityAvailable().LessThanOrEqual(p.ReorderPoint)
}

// UpdateDetails updates descriptive fields
func (p *Product) UpdateDetails(name, description, category, brand, barcode string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	p.Name = name
	p.Description = description
	p.Category = category
	p.Brand = brand
	p.Barcode = barcode
	p.Touch()
	return nil
}

// UpdatePricing sets cost and sale prices
func (p *Product) UpdatePricing(costPrice, salePrice decimal.Decimal, currency string) error {
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Prices cannot be negative")
	}
	p.CostPrice = costPrice
	p.SalePrice = salePrice
	if currency != "" {
		if len(currency) != 3 {
			return shared.NewDomainError("INVALID_INPUT", "Currency must be a 3-letter ISO code")
		}
		p.Currency = strings.ToUpper(currency)
	}
	p.Touch()
	return nil
}

// UpdateDimensions sets physical properties
func (p *Product) UpdateDimensions(weightKg, lengthCm, widthCm, heightCm decimal.Decimal) {
	p.WeightKg = weightKg
	p.LengthCm = lengthCm
	p.WidthCm = widthCm
	p.HeightCm = heightCm
	p.Touch()
}

// UpdateReorderRule sets the reorder point and the quantity suggested
// when it is crossed
func (p *Product) UpdateReorderRule(point, quantity decimal.Decimal) error {
	if point.IsNegative() || quantity.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Reorder values cannot be negative")
	}
	p.ReorderPoint = point
	p.ReorderQuantity = quantity
	p.Touch()
	return nil
}

// SetInventoryTracking toggles ledger-backed quantity tracking
func (p *Product) SetInventoryTracking(enabled bool) {
	p.TrackInventory = enabled
	p.Touch()
}

// ApplyQuantityChange applies a signed ledger delta to the on-hand
// cache. A sale that would drive on-hand negative is rejected.
func (p *Product) ApplyQuantityChange(delta decimal.Decimal) error {
	if !p.TrackInventory {
		return nil
	}
	next := p.QuantityOnHand.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}
	wasLow := p.IsLowStock()
	p.QuantityOnHand = next
	p.Touch()

	p.AddDomainEvent(NewStockUpdatedEvent(p, next.Sub(delta), next))
	if !wasLow && p.IsLowStock() {
		p.AddDomainEvent(NewLowStockEvent(p))
	}
	return nil
}

// Reserve holds quantity against a confirmed order
func (p *Product) Reserve(quantity decimal.Decimal) error {
	if !p.TrackInventory {
		return nil
	}
	if quantity.IsNegative() || quantity.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Reservation quantity must be positive")
	}
	if quantity.GreaterThan(p.QuantityAvailable()) {
		return shared.ErrInsufficientStock
	}
	p.QuantityReserved = p.QuantityReserved.Add(quantity)
	p.Touch()
	return nil
}

// Release returns reserved quantity to the available pool
func (p *Product) Release(quantity decimal.Decimal) {
	if !p.TrackInventory {
		return
	}
	p.QuantityReserved = p.QuantityReserved.Sub(quantity)
	if p.QuantityReserved.IsNegative() {
		p.QuantityReserved = decimal.Zero
	}
	p.Touch()
}

// SetImages replaces the product's image URLs
func (p *Product) SetImages(urls []string) {
	p.ImageURLs = urls
	p.Touch()
}

// MergeProperties merges custom properties. A nil value removes the key.
func (p *Product) MergeProperties(props map[string]any) {
	if p.Properties == nil {
		p.Properties = make(map[string]any)
	}
	for k, v := range props {
		if v == nil {
			delete(p.Properties, k)
			continue
		}
		p.Properties[k] = v
	}
	p.Touch()
}

// Activate makes the product sellable
func (p *Product) Activate() error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived products cannot be reactivated")
	}
	p.Status = ProductStatusActive
	p.Touch()
	return nil
}

// Deactivate hides the product without archiving it
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.Touch()
}

// Archive permanently retires the product
func (p *Product) Archive() {
	p.Status = ProductStatusArchived
	p.Touch()
}
