package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/elevatecrm/backend/internal/application/identity"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// CompanyHandler handles company profile API endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// UpdateCompanyRequest represents a request to update the company profile
// @Description Request body for updating the current company
type UpdateCompanyRequest struct {
	Name         string `json:"name" binding:"omitempty,min=2,max=200" example:"Acme Corp"`
	Email        string `json:"email" binding:"omitempty,email,max=200" example:"info@acme.com"`
	Phone        string `json:"phone" binding:"omitempty,max=50" example:"+15550100"`
	Website      string `json:"website" binding:"omitempty,url,max=500" example:"https://acme.com"`
	AddressLine1 string `json:"address_line1" binding:"omitempty,max=200"`
	AddressLine2 string `json:"address_line2" binding:"omitempty,max=200"`
	City         string `json:"city" binding:"omitempty,max=100"`
	State        string `json:"state" binding:"omitempty,max=100"`
	PostalCode   string `json:"postal_code" binding:"omitempty,max=20"`
	Country      string `json:"country" binding:"omitempty,max=100"`
	Timezone     string `json:"timezone" binding:"omitempty,max=64" example:"America/New_York"`
	Currency     string `json:"currency" binding:"omitempty,len=3" example:"USD"`
}

// UpdateSettingsRequest represents a request to merge company settings
// @Description Request body for updating company settings
type UpdateSettingsRequest struct {
	Settings map[string]any `json:"settings" binding:"required"`
}

// Get godoc
// @ID           getCompany
// @Summary      Get company profile
// @Description  Return the current tenant's company profile
// @Tags         company
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.CompanyInfo]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/company [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Update godoc
// @ID           updateCompany
// @Summary      Update company profile
// @Description  Update profile fields of the current company
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        request body UpdateCompanyRequest true "Company update request"
// @Success      200 {object} APIResponse[identityapp.CompanyInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/company [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), tenantID, identityapp.UpdateCompanyInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Website:      req.Website,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Timezone:     req.Timezone,
		Currency:     req.Currency,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// UpdateSettings godoc
// @ID           updateCompanySettings
// @Summary      Update company settings
// @Description  Merge the given keys into the company settings document
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        request body UpdateSettingsRequest true "Settings update request"
// @Success      200 {object} APIResponse[identityapp.CompanyInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/company/settings [patch]
func (h *CompanyHandler) UpdateSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	company, err := h.companyService.UpdateSettings(c.Request.Context(), tenantID, req.Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}
