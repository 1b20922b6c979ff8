package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	crmapp "github.com/elevatecrm/backend/internal/application/crm"
	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// ContactHandler handles contact-related API endpoints
type ContactHandler struct {
	BaseHandler
	contactService *crmapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *crmapp.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// CreateContactRequest represents a request to create a new contact
// @Description Request body for creating a new contact
type CreateContactRequest struct {
	Type          string   `json:"type" binding:"required,oneof=lead customer vendor partner" example:"lead"`
	FirstName     string   `json:"first_name" binding:"max=100" example:"Jane"`
	LastName      string   `json:"last_name" binding:"max=100" example:"Doe"`
	CompanyName   string   `json:"company_name" binding:"max=200" example:"Globex Inc"`
	Email         string   `json:"email" binding:"omitempty,email,max=200" example:"jane@globex.com"`
	Phone         string   `json:"phone" binding:"max=50"`
	Mobile        string   `json:"mobile" binding:"max=50"`
	JobTitle      string   `json:"job_title" binding:"max=100" example:"VP Procurement"`
	AddressLine1  string   `json:"address_line1" binding:"max=200"`
	AddressLine2  string   `json:"address_line2" binding:"max=200"`
	City          string   `json:"city" binding:"max=100"`
	State         string   `json:"state" binding:"max=100"`
	PostalCode    string   `json:"postal_code" binding:"max=20"`
	Country       string   `json:"country" binding:"max=100"`
	LeadSource    string   `json:"lead_source" binding:"max=100" example:"webinar"`
	Industry      string   `json:"industry" binding:"max=100"`
	AnnualRevenue *float64 `json:"annual_revenue" binding:"omitempty,gte=0" example:"1200000"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	AssignedTo    *string  `json:"assigned_to" binding:"omitempty,uuid"`
}

// UpdateContactRequest represents a request to update a contact
// @Description Request body for updating a contact
type UpdateContactRequest struct {
	FirstName     string   `json:"first_name" binding:"max=100"`
	LastName      string   `json:"last_name" binding:"max=100"`
	CompanyName   string   `json:"company_name" binding:"max=200"`
	Email         string   `json:"email" binding:"omitempty,email,max=200"`
	Phone         string   `json:"phone" binding:"max=50"`
	Mobile        string   `json:"mobile" binding:"max=50"`
	JobTitle      string   `json:"job_title" binding:"max=100"`
	AddressLine1  string   `json:"address_line1" binding:"max=200"`
	AddressLine2  string   `json:"address_line2" binding:"max=200"`
	City          string   `json:"city" binding:"max=100"`
	State         string   `json:"state" binding:"max=100"`
	PostalCode    string   `json:"postal_code" binding:"max=20"`
	Country       string   `json:"country" binding:"max=100"`
	Industry      string   `json:"industry" binding:"max=100"`
	AnnualRevenue *float64 `json:"annual_revenue" binding:"omitempty,gte=0"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
}

// TransitionStageRequest represents a request to move a contact along the lifecycle
// @Description Request body for changing a contact's lifecycle stage
type TransitionStageRequest struct {
	Stage string `json:"stage" binding:"required,oneof=lead marketing_qualified sales_qualified opportunity customer churned" example:"sales_qualified"`
}

// AssignContactRequest represents a request to assign a contact to a user
// @Description Request body for assigning a contact; null user_id unassigns
type AssignContactRequest struct {
	UserID *string `json:"user_id" binding:"omitempty,uuid"`
}

// Create godoc
// @ID           createContact
// @Summary      Create a new contact
// @Description  Create a new contact in the CRM module
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body CreateContactRequest true "Contact creation request"
// @Success      201 {object} APIResponse[crmapp.ContactInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	createdBy, _ := getUserID(c)

	input := crmapp.CreateContactInput{
		Type:         req.Type,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		Email:        req.Email,
		Phone:        req.Phone,
		Mobile:       req.Mobile,
		JobTitle:     req.JobTitle,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		LeadSource:   req.LeadSource,
		Industry:     req.Industry,
		Tags:         req.Tags,
		Notes:        req.Notes,
	}
	if req.AnnualRevenue != nil {
		input.AnnualRevenue = toDecimal(*req.AnnualRevenue)
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			h.BadRequest(c, "Invalid assignee ID format")
			return
		}
		input.AssignedTo = &assignee
	}

	contact, err := h.contactService.Create(c.Request.Context(), tenantID, createdBy, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contact)
}

// List godoc
// @ID           listContacts
// @Summary      List contacts
// @Description  List contacts of the current tenant with pagination and search
// @Tags         contacts
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name, email or company"
// @Param        stage query string false "Filter by lifecycle stage"
// @Param        type query string false "Filter by contact type"
// @Success      200 {object} APIResponse[[]crmapp.ContactInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
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
	if stage := c.Query("stage"); stage != "" {
		filter.Filters["stage"] = stage
	}
	if contactType := c.Query("type"); contactType != "" {
		filter.Filters["type"] = contactType
	}

	result, err := h.contactService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getContactById
// @Summary      Get contact by ID
// @Description  Retrieve one contact of the current tenant
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      200 {object} APIResponse[crmapp.ContactInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), tenantID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// Update godoc
// @ID           updateContact
// @Summary      Update a contact
// @Description  Update profile fields of a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Param        request body UpdateContactRequest true "Contact update request"
// @Success      200 {object} APIResponse[crmapp.ContactInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := crmapp.UpdateContactInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		Email:        req.Email,
		Phone:        req.Phone,
		Mobile:       req.Mobile,
		JobTitle:     req.JobTitle,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Industry:     req.Industry,
		Tags:         req.Tags,
		Notes:        req.Notes,
	}
	if req.AnnualRevenue != nil {
		input.AnnualRevenue = toDecimal(*req.AnnualRevenue)
	}

	contact, err := h.contactService.Update(c.Request.Context(), tenantID, contactID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// TransitionStage godoc
// @ID           transitionContactStage
// @Summary      Change a contact's lifecycle stage
// @Description  Move the contact to the given lifecycle stage
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Param        request body TransitionStageRequest true "Target stage"
// @Success      200 {object} APIResponse[crmapp.ContactInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/{id}/stage [post]
func (h *ContactHandler) TransitionStage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req TransitionStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contact, err := h.contactService.TransitionStage(c.Request.Context(), tenantID, contactID, req.Stage)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// Assign godoc
// @ID           assignContact
// @Summary      Assign a contact to a user
// @Description  Set or clear the owning user of a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Param        request body AssignContactRequest true "Assignment request"
// @Success      200 {object} APIResponse[crmapp.ContactInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/{id}/assign [post]
func (h *ContactHandler) Assign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req AssignContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var assignee *uuid.UUID
	if req.UserID != nil {
		parsed, err := uuid.Parse(*req.UserID)
		if err != nil {
			h.BadRequest(c, "Invalid user ID format")
			return
		}
		assignee = &parsed
	}

	contact, err := h.contactService.Assign(c.Request.Context(), tenantID, contactID, assignee)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// RecordTouch godoc
// @ID           recordContactTouch
// @Summary      Record a touch on a contact
// @Description  Mark the contact as contacted now, updating activity timestamps
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      200 {object} APIResponse[crmapp.ContactInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/{id}/touch [post]
func (h *ContactHandler) RecordTouch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	contact, err := h.contactService.RecordTouch(c.Request.Context(), tenantID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// Archive godoc
// @ID           archiveContact
// @Summary      Archive a contact
// @Description  Deactivate a contact without deleting its history
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/{id}/archive [post]
func (h *ContactHandler) Archive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	if err := h.contactService.Archive(c.Request.Context(), tenantID, contactID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Contact archived"})
}

// Delete godoc
// @ID           deleteContact
// @Summary      Delete a contact
// @Description  Soft-delete a contact from the tenant
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), tenantID, contactID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CountByStage godoc
// @ID           countContactsByStage
// @Summary      Count contacts per lifecycle stage
// @Description  Return the pipeline breakdown of the current tenant
// @Tags         contacts
// @Produce      json
// @Success      200 {object} APIResponse[map[string]int64]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /crm/contacts/stats/by-stage [get]
func (h *ContactHandler) CountByStage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	counts, err := h.contactService.CountByStage(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	byStage := make(map[string]int64, len(counts))
	for stage, count := range counts {
		byStage[string(stage)] = count
	}

	h.Success(c, byStage)
}
