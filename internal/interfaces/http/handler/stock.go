package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/elevatecrm/backend/internal/application/inventory"
	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// ReceiptRequest represents a request to record incoming stock
// @Description Request body for recording a stock receipt
type ReceiptRequest struct {
	ProductID    string   `json:"product_id" binding:"required,uuid"`
	ToLocationID *string  `json:"to_location_id" binding:"omitempty,uuid"`
	Quantity     float64  `json:"quantity" binding:"required,gt=0" example:"25"`
	UnitCost     *float64 `json:"unit_cost" binding:"omitempty,gte=0" example:"12.50"`
	Notes        string   `json:"notes"`
}

// SaleMovementRequest represents a request to record outgoing stock
// @Description Request body for recording a direct stock sale
type SaleMovementRequest struct {
	ProductID      string  `json:"product_id" binding:"required,uuid"`
	FromLocationID *string `json:"from_location_id" binding:"omitempty,uuid"`
	Quantity       float64 `json:"quantity" binding:"required,gt=0" example:"3"`
	ReferenceType  string  `json:"reference_type" binding:"max=50" example:"pos"`
	ReferenceID    *string `json:"reference_id" binding:"omitempty,uuid"`
	Notes          string  `json:"notes"`
}

// TransferRequest represents a request to move stock between locations
// @Description Request body for recording a stock transfer
type TransferRequest struct {
	ProductID      string  `json:"product_id" binding:"required,uuid"`
	FromLocationID string  `json:"from_location_id" binding:"required,uuid"`
	ToLocationID   string  `json:"to_location_id" binding:"required,uuid"`
	Quantity       float64 `json:"quantity" binding:"required,gt=0" example:"10"`
	Notes          string  `json:"notes"`
}

// AdjustmentRequest represents a request to correct the on-hand count
// @Description Request body for recording a stock adjustment after a count
type AdjustmentRequest struct {
	ProductID     string  `json:"product_id" binding:"required,uuid"`
	LocationID    *string `json:"location_id" binding:"omitempty,uuid"`
	CountedAmount float64 `json:"counted_amount" binding:"gte=0" example:"47"`
	Notes         string  `json:"notes" binding:"required"`
}

// RecordReceipt godoc
// @ID           recordStockReceipt
// @Summary      Record a stock receipt
// @Description  Register incoming stock from a supplier and increase on-hand
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body ReceiptRequest true "Receipt request"
// @Success      201 {object} APIResponse[inventoryapp.MoveInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/moves/receipt [post]
func (h *StockHandler) RecordReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	input := inventoryapp.ReceiptInput{
		ProductID: productID,
		Quantity:  toDecimal(req.Quantity),
		Notes:     req.Notes,
	}
	if req.ToLocationID != nil {
		locationID, err := uuid.Parse(*req.ToLocationID)
		if err != nil {
			h.BadRequest(c, "Invalid location ID format")
			return
		}
		input.ToLocationID = &locationID
	}
	if req.UnitCost != nil {
		input.UnitCost = toDecimal(*req.UnitCost)
	}

	createdBy, _ := getUserID(c)

	move, err := h.stockService.RecordReceipt(c.Request.Context(), tenantID, createdBy, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, move)
}

// RecordSale godoc
// @ID           recordStockSale
// @Summary      Record a stock sale
// @Description  Register outgoing stock and decrease on-hand
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body SaleMovementRequest true "Sale request"
// @Success      201 {object} APIResponse[inventoryapp.MoveInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/moves/sale [post]
func (h *StockHandler) RecordSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req SaleMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	input := inventoryapp.SaleInput{
		ProductID:     productID,
		Quantity:      toDecimal(req.Quantity),
		ReferenceType: req.ReferenceType,
		Notes:         req.Notes,
	}
	if req.FromLocationID != nil {
		locationID, err := uuid.Parse(*req.FromLocationID)
		if err != nil {
			h.BadRequest(c, "Invalid location ID format")
			return
		}
		input.FromLocationID = &locationID
	}
	if req.ReferenceID != nil {
		refID, err := uuid.Parse(*req.ReferenceID)
		if err != nil {
			h.BadRequest(c, "Invalid reference ID format")
			return
		}
		input.ReferenceID = &refID
	}

	createdBy, _ := getUserID(c)

	move, err := h.stockService.RecordSale(c.Request.Context(), tenantID, createdBy, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, move)
}

// RecordTransfer godoc
// @ID           recordStockTransfer
// @Summary      Record a stock transfer
// @Description  Move stock between two locations without changing totals
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body TransferRequest true "Transfer request"
// @Success      201 {object} APIResponse[inventoryapp.MoveInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/moves/transfer [post]
func (h *StockHandler) RecordTransfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	fromID, err := uuid.Parse(req.FromLocationID)
	if err != nil {
		h.BadRequest(c, "Invalid source location ID format")
		return
	}
	toID, err := uuid.Parse(req.ToLocationID)
	if err != nil {
		h.BadRequest(c, "Invalid destination location ID format")
		return
	}

	createdBy, _ := getUserID(c)

	move, err := h.stockService.RecordTransfer(c.Request.Context(), tenantID, createdBy, inventoryapp.TransferInput{
		ProductID:      productID,
		FromLocationID: fromID,
		ToLocationID:   toID,
		Quantity:       toDecimal(req.Quantity),
		Notes:          req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, move)
}

// RecordAdjustment godoc
// @ID           recordStockAdjustment
// @Summary      Record a stock adjustment
// @Description  Correct the on-hand count to the physically counted amount
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body AdjustmentRequest true "Adjustment request"
// @Success      201 {object} APIResponse[inventoryapp.MoveInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/moves/adjustment [post]
func (h *StockHandler) RecordAdjustment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	input := inventoryapp.AdjustmentInput{
		ProductID:     productID,
		CountedAmount: toDecimal(req.CountedAmount),
		Notes:         req.Notes,
	}
	if req.LocationID != nil {
		locationID, err := uuid.Parse(*req.LocationID)
		if err != nil {
			h.BadRequest(c, "Invalid location ID format")
			return
		}
		input.LocationID = &locationID
	}

	createdBy, _ := getUserID(c)

	move, err := h.stockService.RecordAdjustment(c.Request.Context(), tenantID, createdBy, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, move)
}

// Cancel godoc
// @ID           cancelStockMove
// @Summary      Cancel a pending stock move
// @Description  Cancel a move that has not been applied to stock yet
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Move ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.MoveInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/moves/{id}/cancel [post]
func (h *StockHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	moveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid move ID format")
		return
	}

	move, err := h.stockService.CancelMove(c.Request.Context(), tenantID, moveID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, move)
}

// Get godoc
// @ID           getStockMoveById
// @Summary      Get stock move by ID
// @Description  Retrieve one ledger entry of the current tenant
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Move ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.MoveInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/moves/{id} [get]
func (h *StockHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	moveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid move ID format")
		return
	}

	move, err := h.stockService.Get(c.Request.Context(), tenantID, moveID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, move)
}

// ListByProduct godoc
// @ID           listStockMovesByProduct
// @Summary      List stock moves for a product
// @Description  Page through the stock ledger of one product
// @Tags         inventory
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        type query string false "Filter by movement type"
// @Success      200 {object} APIResponse[[]inventoryapp.MoveInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/products/{product_id}/moves [get]
func (h *StockHandler) ListByProduct(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := toFilter(req)
	if moveType := c.Query("type"); moveType != "" {
		filter.Filters["type"] = moveType
	}

	result, err := h.stockService.ListByProduct(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
