package handler

import (
	"github.com/gin-gonic/gin"

	exportapp "github.com/elevatecrm/backend/internal/application/export"
)

// ExportHandler handles CSV export API endpoints
type ExportHandler struct {
	BaseHandler
	exportService *exportapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *exportapp.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Contacts godoc
// @ID           exportContacts
// @Summary      Export contacts to CSV
// @Description  Write the tenant's contacts to object storage and return a download link
// @Tags         exports
// @Produce      json
// @Success      201 {object} APIResponse[exportapp.Result]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exports/contacts [post]
func (h *ExportHandler) Contacts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.exportService.ExportContacts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Orders godoc
// @ID           exportOrders
// @Summary      Export orders to CSV
// @Description  Write the tenant's orders to object storage and return a download link
// @Tags         exports
// @Produce      json
// @Success      201 {object} APIResponse[exportapp.Result]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exports/orders [post]
func (h *ExportHandler) Orders(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.exportService.ExportOrders(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
