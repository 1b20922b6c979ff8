package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/elevatecrm/backend/internal/application/catalog"
	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProductRequest represents a request to create a new product
// @Description Request body for creating a new product
type CreateProductRequest struct {
	Name            string         `json:"name" binding:"required,min=1,max=200" example:"Steel Widget"`
	SKU             string         `json:"sku" binding:"required,min=1,max=64" example:"WID-001"`
	Barcode         string         `json:"barcode" binding:"max=64"`
	Description     string         `json:"description"`
	Type            string         `json:"type" binding:"required,oneof=product service bundle" example:"product"`
	Category        string         `json:"category" binding:"max=100" example:"hardware"`
	Brand           string         `json:"brand" binding:"max=100"`
	CostPrice       *float64       `json:"cost_price" binding:"omitempty,gte=0" example:"12.50"`
	SalePrice       *float64       `json:"sale_price" binding:"omitempty,gte=0" example:"24.99"`
	Currency        string         `json:"currency" binding:"omitempty,len=3" example:"USD"`
	WeightKg        *float64       `json:"weight_kg" binding:"omitempty,gte=0"`
	LengthCm        *float64       `json:"length_cm" binding:"omitempty,gte=0"`
	WidthCm         *float64       `json:"width_cm" binding:"omitempty,gte=0"`
	HeightCm        *float64       `json:"height_cm" binding:"omitempty,gte=0"`
	TrackInventory  *bool          `json:"track_inventory"`
	ReorderPoint    *float64       `json:"reorder_point" binding:"omitempty,gte=0" example:"10"`
	ReorderQuantity *float64       `json:"reorder_quantity" binding:"omitempty,gte=0" example:"50"`
	ImageURLs       []string       `json:"image_urls" binding:"omitempty,dive,url"`
	Properties      map[string]any `json:"properties"`
}

// UpdateProductRequest represents a request to update a product
// @Description Request body for updating a product
type UpdateProductRequest struct {
	Name            string         `json:"name" binding:"omitempty,min=1,max=200"`
	Barcode         string         `json:"barcode" binding:"max=64"`
	Description     string         `json:"description"`
	Category        string         `json:"category" binding:"max=100"`
	Brand           string         `json:"brand" binding:"max=100"`
	CostPrice       *float64       `json:"cost_price" binding:"omitempty,gte=0"`
	SalePrice       *float64       `json:"sale_price" binding:"omitempty,gte=0"`
	Currency        string         `json:"currency" binding:"omitempty,len=3"`
	WeightKg        *float64       `json:"weight_kg" binding:"omitempty,gte=0"`
	LengthCm        *float64       `json:"length_cm" binding:"omitempty,gte=0"`
	WidthCm         *float64       `json:"width_cm" binding:"omitempty,gte=0"`
	HeightCm        *float64       `json:"height_cm" binding:"omitempty,gte=0"`
	ReorderPoint    *float64       `json:"reorder_point" binding:"omitempty,gte=0"`
	ReorderQuantity *float64       `json:"reorder_quantity" binding:"omitempty,gte=0"`
	ImageURLs       []string       `json:"image_urls" binding:"omitempty,dive,url"`
	Properties      map[string]any `json:"properties"`
}

// Create godoc
// @ID           createProduct
// @Summary      Create a new product
// @Description  Create a new product in the catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	createdBy, _ := getUserID(c)

	input := catalogapp.CreateProductInput{
		Name:           req.Name,
		SKU:            req.SKU,
		Barcode:        req.Barcode,
		Description:    req.Description,
		Type:           req.Type,
		Category:       req.Category,
		Brand:          req.Brand,
		Currency:       req.Currency,
		TrackInventory: req.TrackInventory,
		ImageURLs:      req.ImageURLs,
		Properties:     req.Properties,
	}
	if req.CostPrice != nil {
		input.CostPrice = toDecimal(*req.CostPrice)
	}
	if req.SalePrice != nil {
		input.SalePrice = toDecimal(*req.SalePrice)
	}
	if req.WeightKg != nil {
		input.WeightKg = toDecimal(*req.WeightKg)
	}
	if req.LengthCm != nil {
		input.LengthCm = toDecimal(*req.LengthCm)
	}
	if req.WidthCm != nil {
		input.WidthCm = toDecimal(*req.WidthCm)
	}
	if req.HeightCm != nil {
		input.HeightCm = toDecimal(*req.HeightCm)
	}
	if req.ReorderPoint != nil {
		input.ReorderPoint = toDecimal(*req.ReorderPoint)
	}
	if req.ReorderQuantity != nil {
		input.ReorderQuantity = toDecimal(*req.ReorderQuantity)
	}

	product, err := h.productService.Create(c.Request.Context(), tenantID, createdBy, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  List products of the current tenant with pagination and search
// @Tags         products
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or SKU"
// @Param        status query string false "Filter by status"
// @Param        category query string false "Filter by category"
// @Success      200 {object} APIResponse[[]catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := toFilter(req)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}

	result, err := h.productService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getProductById
// @Summary      Get product by ID
// @Description  Retrieve one product of the current tenant
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetBySKU godoc
// @ID           getProductBySku
// @Summary      Get product by SKU
// @Description  Retrieve one product by its SKU
// @Tags         products
// @Produce      json
// @Param        sku path string true "Product SKU"
// @Success      200 {object} APIResponse[catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/sku/{sku} [get]
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "SKU is required")
		return
	}

	product, err := h.productService.GetBySKU(c.Request.Context(), tenantID, sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ListLowStock godoc
// @ID           listLowStockProducts
// @Summary      List low-stock products
// @Description  List tracked products at or below their reorder point
// @Tags         products
// @Produce      json
// @Param        limit query int false "Maximum items to return" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/low-stock [get]
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	products, err := h.productService.ListLowStock(c.Request.Context(), tenantID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Update catalog fields of a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body UpdateProductRequest true "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := catalogapp.UpdateProductInput{
		Name:        req.Name,
		Barcode:     req.Barcode,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Currency:    req.Currency,
		ImageURLs:   req.ImageURLs,
		Properties:  req.Properties,
	}
	if req.CostPrice != nil {
		input.CostPrice = toDecimal(*req.CostPrice)
	}
	if req.SalePrice != nil {
		input.SalePrice = toDecimal(*req.SalePrice)
	}
	if req.WeightKg != nil {
		input.WeightKg = toDecimal(*req.WeightKg)
	}
	if req.LengthCm != nil {
		input.LengthCm = toDecimal(*req.LengthCm)
	}
	if req.WidthCm != nil {
		input.WidthCm = toDecimal(*req.WidthCm)
	}
	if req.HeightCm != nil {
		input.HeightCm = toDecimal(*req.HeightCm)
	}
	if req.ReorderPoint != nil {
		input.ReorderPoint = toDecimal(*req.ReorderPoint)
	}
	if req.ReorderQuantity != nil {
		input.ReorderQuantity = toDecimal(*req.ReorderQuantity)
	}

	product, err := h.productService.Update(c.Request.Context(), tenantID, productID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate godoc
// @ID           activateProduct
// @Summary      Activate a product
// @Description  Make the product available for orders and stock moves
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.productService.Activate)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Description  Hide the product from ordering without archiving it
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.productService.Deactivate)
}

// Archive godoc
// @ID           archiveProduct
// @Summary      Archive a product
// @Description  Retire the product permanently from the catalog
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/archive [post]
func (h *ProductHandler) Archive(c *gin.Context) {
	h.changeStatus(c, h.productService.Archive)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Description  Soft-delete a product from the catalog
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), tenantID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// changeStatus is the shared flow behind activate/deactivate/archive
func (h *ProductHandler) changeStatus(c *gin.Context, op func(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.ProductInfo, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := op(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
