package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/catalog"
)

// CreateProductInput carries the fields for a new product
type CreateProductInput struct {
	Name            string
	SKU             string
	Barcode         string
	Description     string
	Type            string
	Category        string
	Brand           string
	CostPrice       decimal.Decimal
	SalePrice       decimal.Decimal
	Currency        string
	WeightKg        decimal.Decimal
	LengthCm        decimal.Decimal
	WidthCm         decimal.Decimal
	HeightCm        decimal.Decimal
	TrackInventory  *bool
	ReorderPoint    decimal.Decimal
	ReorderQuantity decimal.Decimal
	ImageURLs       []string
	Properties      map[string]any
}

// UpdateProductInput carries product updates
type UpdateProductInput struct {
	Name            string
	Barcode         string
	Description     string
	Category        string
	Brand           string
	CostPrice       decimal.Decimal
	SalePrice       decimal.Decimal
	Currency        string
	WeightKg        decimal.Decimal
	LengthCm        decimal.Decimal
	WidthCm         decimal.Decimal
	HeightCm        decimal.Decimal
	ReorderPoint    decimal.Decimal
	ReorderQuantity decimal.Decimal
	ImageURLs       []string
	Properties      map[string]any
}

// ProductInfo is the product projection returned to API clients
type ProductInfo struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode,omitempty"`
	Description       string          `json:"description,omitempty"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	Category          string          `json:"category,omitempty"`
	Brand             string          `json:"brand,omitempty"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	Currency          string          `json:"currency"`
	WeightKg          decimal.Decimal `json:"weight_kg"`
	LengthCm          decimal.Decimal `json:"length_cm"`
	WidthCm           decimal.Decimal `json:"width_cm"`
	HeightCm          decimal.Decimal `json:"height_cm"`
	TrackInventory    bool            `json:"track_inventory"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	ReorderQuantity   decimal.Decimal `json:"reorder_quantity"`
	LowStock          bool            `json:"low_stock"`
	ImageURLs         []string        `json:"image_urls"`
	Properties        map[string]any  `json:"properties,omitempty"`
	ExternalRefs      map[string]any  `json:"external_refs,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewProductInfo projects a product aggregate for API responses
func NewProductInfo(product *catalog.Product) ProductInfo {
	return ProductInfo{
		ID:                product.ID,
		Name:              product.Name,
		SKU:               product.SKU,
		Barcode:           product.Barcode,
		Description:       product.Description,
		Type:              string(product.Type),
		Status:            string(product.Status),
		Category:          product.Category,
		Brand:             product.Brand,
		CostPrice:         product.CostPrice,
		SalePrice:         product.SalePrice,
		Currency:          product.Currency,
		WeightKg:          product.WeightKg,
		LengthCm:          product.LengthCm,
		WidthCm:           product.WidthCm,
		HeightCm:          product.HeightCm,
		TrackInventory:    product.TrackInventory,
		QuantityOnHand:    product.QuantityOnHand,
		QuantityReserved:  product.QuantityReserved,
		QuantityAvailable: product.QuantityAvailable(),
		ReorderPoint:      product.ReorderPoint,
		ReorderQuantity:   product.ReorderQuantity,
		LowStock:          product.IsLowStock(),
		ImageURLs:         product.ImageURLs,
		Properties:        product.Properties,
		ExternalRefs:      product.ExternalRefs,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}

// LocationInput carries the fields for creating or updating a location
type LocationInput struct {
	Name         string
	Code         string
	Type         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// LocationInfo is the stock location projection for API clients
type LocationInfo struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Type         string    `json:"type"`
	AddressLine1 string    `json:"address_line1,omitempty"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      string    `json:"country,omitempty"`
	IsDefault    bool      `json:"is_default"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewLocationInfo projects a stock location for API responses
func NewLocationInfo(location *catalog.StockLocation) LocationInfo {
	return LocationInfo{
		ID:           location.ID,
		Name:         location.Name,
		Code:         location.Code,
		Type:         string(location.Type),
		AddressLine1: location.AddressLine1,
		AddressLine2: location.AddressLine2,
		City:         location.City,
		State:        location.State,
		PostalCode:   location.PostalCode,
		Country:      location.Country,
		IsDefault:    location.IsDefault,
		IsActive:     location.IsActive,
		CreatedAt:    location.CreatedAt,
	}
}
