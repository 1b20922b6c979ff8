package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/shared"
)

// ProductService manages the tenant's product catalog
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates the product service
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// Create adds a new product
func (s *ProductService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, input CreateProductInput) (*ProductInfo, error) {
	taken, err := s.productRepo.ExistsBySKUForTenant(ctx, tenantID, input.SKU)
	if err != nil {
		s.logger.Error("SKU lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check SKU availability")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, input.Name, input.SKU,
		catalog.ProductType(input.Type), input.SalePrice)
	if err != nil {
		return nil, err
	}
	product.SetCreatedBy(createdBy)

	if err := product.UpdateDetails(input.Name, input.Description, input.Category,
		input.Brand, input.Barcode); err != nil {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = product.Currency
	}
	if err := product.UpdatePricing(input.CostPrice, input.SalePrice, currency); err != nil {
		return nil, err
	}
	product.UpdateDimensions(input.WeightKg, input.LengthCm, input.WidthCm, input.HeightCm)
	if err := product.UpdateReorderRule(input.ReorderPoint, input.ReorderQuantity); err != nil {
		return nil, err
	}
	if input.TrackInventory != nil {
		product.SetInventoryTracking(*input.TrackInventory)
	}
	if len(input.ImageURLs) > 0 {
		product.SetImages(input.ImageURLs)
	}
	if len(input.Properties) > 0 {
		product.MergeProperties(input.Properties)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	info := NewProductInfo(product)
	return &info, nil
}

// Get returns a single product
func (s *ProductService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ProductInfo, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	info := NewProductInfo(product)
	return &info, nil
}

// GetBySKU returns a product by its SKU
func (s *ProductService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductInfo, error) {
	product, err := s.productRepo.FindBySKUForTenant(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	info := NewProductInfo(product)
	return &info, nil
}

// List returns a page of products matching the filter
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[ProductInfo], error) {
	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[ProductInfo]{}, err
	}

	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, NewProductInfo(&products[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

// ListLowStock returns tracked products at or below their reorder point
func (s *ProductService) ListLowStock(ctx context.Context, tenantID uuid.UUID, limit int) ([]ProductInfo, error) {
	products, err := s.productRepo.FindLowStockForTenant(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}

	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, NewProductInfo(&products[i]))
	}
	return infos, nil
}

// Update changes product details, pricing and reorder rules
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*ProductInfo, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := product.UpdateDetails(input.Name, input.Description, input.Category,
		input.Brand, input.Barcode); err != nil {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = product.Currency
	}
	if err := product.UpdatePricing(input.CostPrice, input.SalePrice, currency); err != nil {
		return nil, err
	}
	product.UpdateDimensions(input.WeightKg, input.LengthCm, input.WidthCm, input.HeightCm)
	if err := product.UpdateReorderRule(input.ReorderPoint, input.ReorderQuantity); err != nil {
		return nil, err
	}
	product.SetImages(input.ImageURLs)
	if len(input.Properties) > 0 {
		product.MergeProperties(input.Properties)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	info := NewProductInfo(product)
	return &info, nil
}

// Activate makes the product visible and sellable again
func (s *ProductService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ProductInfo, error) {
	return s.changeStatus(ctx, tenantID, id, func(p *catalog.Product) error { return p.Activate() })
}

// Deactivate hides the product from sale
func (s *ProductService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*ProductInfo, error) {
	return s.changeStatus(ctx, tenantID, id, func(p *catalog.Product) error {
		p.Deactivate()
		return nil
	})
}

// Archive retires the product permanently
func (s *ProductService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ProductInfo, error) {
	return s.changeStatus(ctx, tenantID, id, func(p *catalog.Product) error {
		p.Archive()
		return nil
	})
}

func (s *ProductService) changeStatus(ctx context.Context, tenantID, id uuid.UUID, change func(*catalog.Product) error) (*ProductInfo, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	info := NewProductInfo(product)
	return &info, nil
}

// Delete permanently removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, tenantID, id)
}
