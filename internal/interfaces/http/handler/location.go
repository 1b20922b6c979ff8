package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/elevatecrm/backend/internal/application/catalog"
	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// LocationHandler handles stock location API endpoints
type LocationHandler struct {
	BaseHandler
	locationService *catalogapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *catalogapp.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// LocationRequest represents a request to create or update a stock location
// @Description Request body for creating or updating a stock location
type LocationRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200" example:"Main Warehouse"`
	Code         string `json:"code" binding:"required,min=1,max=50" example:"WH-MAIN"`
	Type         string `json:"type" binding:"required,oneof=warehouse store virtual" example:"warehouse"`
	AddressLine1 string `json:"address_line1" binding:"max=200"`
	AddressLine2 string `json:"address_line2" binding:"max=200"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"max=100"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"max=100"`
}

func (r LocationRequest) toInput() catalogapp.LocationInput {
	return catalogapp.LocationInput{
		Name:         r.Name,
		Code:         r.Code,
		Type:         r.Type,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
	}
}

// Create godoc
// @ID           createLocation
// @Summary      Create a new stock location
// @Description  Create a warehouse, store or virtual location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body LocationRequest true "Location creation request"
// @Success      201 {object} APIResponse[catalogapp.LocationInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	createdBy, _ := getUserID(c)

	location, err := h.locationService.Create(c.Request.Context(), tenantID, createdBy, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, location)
}

// List godoc
// @ID           listLocations
// @Summary      List stock locations
// @Description  List locations of the current tenant with pagination
// @Tags         locations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.LocationInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/locations [get]
func (h *LocationHandler) List(c *gin.Context) {
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

	result, err := h.locationService.List(c.Request.Context(), tenantID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getLocationById
// @Summary      Get location by ID
// @Description  Retrieve one stock location of the current tenant
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.LocationInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/locations/{id} [get]
func (h *LocationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	location, err := h.locationService.Get(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, location)
}

// Update godoc
// @ID           updateLocation
// @Summary      Update a location
// @Description  Update the fields of a stock location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Param        request body LocationRequest true "Location update request"
// @Success      200 {object} APIResponse[catalogapp.LocationInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/locations/{id} [put]
func (h *LocationHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	location, err := h.locationService.Update(c.Request.Context(), tenantID, locationID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, location)
}

// SetDefault godoc
// @ID           setDefaultLocation
// @Summary      Set the default location
// @Description  Make this location the tenant default for stock operations
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/locations/{id}/default [post]
func (h *LocationHandler) SetDefault(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.locationService.SetDefault(c.Request.Context(), tenantID, locationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Default location updated"})
}

// Delete godoc
// @ID           deleteLocation
// @Summary      Delete a location
// @Description  Soft-delete a stock location
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), tenantID, locationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
