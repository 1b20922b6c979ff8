package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/elevatecrm/backend/internal/application/trade"
	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// LineItemRequest represents one order line in a request
// @Description One line of an order
type LineItemRequest struct {
	ProductID       *string `json:"product_id" binding:"omitempty,uuid"`
	Name            string  `json:"name" binding:"required,min=1,max=200" example:"Steel Widget"`
	SKU             string  `json:"sku" binding:"max=64" example:"WID-001"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0" example:"4"`
	UnitPrice       float64 `json:"unit_price" binding:"gte=0" example:"24.99"`
	DiscountPercent float64 `json:"discount_percent" binding:"gte=0,lte=100" example:"5"`
	TaxPercent      float64 `json:"tax_percent" binding:"gte=0,lte=100" example:"8.25"`
}

// CreateOrderRequest represents a request to create a draft order
// @Description Request body for creating a new draft order
type CreateOrderRequest struct {
	Type            string            `json:"type" binding:"required,oneof=quote sales_order purchase_order invoice" example:"sales_order"`
	ContactID       *string           `json:"contact_id" binding:"omitempty,uuid"`
	Currency        string            `json:"currency" binding:"omitempty,len=3" example:"USD"`
	BillingAddress  map[string]any    `json:"billing_address"`
	ShippingAddress map[string]any    `json:"shipping_address"`
	ShippingCost    *float64          `json:"shipping_cost" binding:"omitempty,gte=0" example:"9.99"`
	Notes           string            `json:"notes"`
	LineItems       []LineItemRequest `json:"line_items" binding:"omitempty,dive"`
}

// UpdateOrderRequest represents a request to rewrite a draft order
// @Description Request body for updating a draft order; line items are replaced
type UpdateOrderRequest struct {
	ContactID       *string           `json:"contact_id" binding:"omitempty,uuid"`
	Currency        string            `json:"currency" binding:"omitempty,len=3"`
	BillingAddress  map[string]any    `json:"billing_address"`
	ShippingAddress map[string]any    `json:"shipping_address"`
	ShippingCost    *float64          `json:"shipping_cost" binding:"omitempty,gte=0"`
	Notes           string            `json:"notes"`
	LineItems       []LineItemRequest `json:"line_items" binding:"omitempty,dive"`
}

// RecordPaymentRequest represents a request to set an order's payment status
// @Description Request body for recording a payment status change
type RecordPaymentRequest struct {
	Status string `json:"status" binding:"required,oneof=unpaid partial paid refunded" example:"paid"`
}

func toLineItemInputs(items []LineItemRequest) ([]tradeapp.LineItemInput, error) {
	inputs := make([]tradeapp.LineItemInput, 0, len(items))
	for _, item := range items {
		input := tradeapp.LineItemInput{
			Name:            item.Name,
			SKU:             item.SKU,
			Quantity:        toDecimal(item.Quantity),
			UnitPrice:       toDecimal(item.UnitPrice),
			DiscountPercent: toDecimal(item.DiscountPercent),
			TaxPercent:      toDecimal(item.TaxPercent),
		}
		if item.ProductID != nil {
			productID, err := uuid.Parse(*item.ProductID)
			if err != nil {
				return nil, err
			}
			input.ProductID = &productID
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// Create godoc
// @ID           createOrder
// @Summary      Create a new order
// @Description  Create a draft order; the order number is assigned on save
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body CreateOrderRequest true "Order creation request"
// @Success      201 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := tradeapp.CreateOrderInput{
		Type:            req.Type,
		Currency:        req.Currency,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
	if req.ContactID != nil {
		contactID, err := uuid.Parse(*req.ContactID)
		if err != nil {
			h.BadRequest(c, "Invalid contact ID format")
			return
		}
		input.ContactID = &contactID
	}
	if req.ShippingCost != nil {
		input.ShippingCost = toDecimal(*req.ShippingCost)
	}
	items, err := toLineItemInputs(req.LineItems)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format in line items")
		return
	}
	input.LineItems = items

	createdBy, _ := getUserID(c)

	order, err := h.orderService.Create(c.Request.Context(), tenantID, createdBy, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  List orders of the current tenant with pagination and filters
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by order number"
// @Param        type query string false "Filter by order type"
// @Param        status query string false "Filter by status"
// @Param        contact_id query string false "Filter by contact" format(uuid)
// @Success      200 {object} APIResponse[[]tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
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
	if orderType := c.Query("type"); orderType != "" {
		filter.Filters["type"] = orderType
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if contactID := c.Query("contact_id"); contactID != "" {
		if _, err := uuid.Parse(contactID); err != nil {
			h.BadRequest(c, "Invalid contact ID format")
			return
		}
		filter.Filters["contact_id"] = contactID
	}

	result, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getOrderById
// @Summary      Get order by ID
// @Description  Retrieve one order with its line items
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByNumber godoc
// @ID           getOrderByNumber
// @Summary      Get order by number
// @Description  Retrieve one order by its human-readable number
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number" example:"ORD-000042"
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Update godoc
// @ID           updateOrder
// @Summary      Update a draft order
// @Description  Rewrite the fields and line items of a draft order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body UpdateOrderRequest true "Order update request"
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := tradeapp.UpdateOrderInput{
		Currency:        req.Currency,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
	if req.ContactID != nil {
		contactID, err := uuid.Parse(*req.ContactID)
		if err != nil {
			h.BadRequest(c, "Invalid contact ID format")
			return
		}
		input.ContactID = &contactID
	}
	if req.ShippingCost != nil {
		input.ShippingCost = toDecimal(*req.ShippingCost)
	}
	items, err := toLineItemInputs(req.LineItems)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format in line items")
		return
	}
	input.LineItems = items

	order, err := h.orderService.Update(c.Request.Context(), tenantID, orderID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Send godoc
// @ID           sendOrder
// @Summary      Send an order
// @Description  Mark a draft order as sent to the counterparty
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id}/send [post]
func (h *OrderHandler) Send(c *gin.Context) {
	h.transition(c, h.orderService.Send)
}

// Confirm godoc
// @ID           confirmOrder
// @Summary      Confirm an order
// @Description  Confirm the order and reserve stock for sales orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orderService.Confirm)
}

// Fulfill godoc
// @ID           fulfillOrder
// @Summary      Fulfill an order
// @Description  Fulfill a confirmed order, writing completed stock moves
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id}/fulfill [post]
func (h *OrderHandler) Fulfill(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	actorID, _ := getUserID(c)

	order, err := h.orderService.Fulfill(c.Request.Context(), tenantID, actorID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Cancel an unfulfilled order and release reservations
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orderService.Cancel)
}

// RecordPayment godoc
// @ID           recordOrderPayment
// @Summary      Record a payment status
// @Description  Set the payment status of an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body RecordPaymentRequest true "Payment status"
// @Success      200 {object} APIResponse[tradeapp.OrderInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id}/payment [post]
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.RecordPayment(c.Request.Context(), tenantID, orderID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete godoc
// @ID           deleteOrder
// @Summary      Delete a draft order
// @Description  Delete an order that is still in draft
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// transition is the shared flow behind send/confirm/cancel
func (h *OrderHandler) transition(c *gin.Context, op func(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.OrderInfo, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := op(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
