package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	analyticsapp "github.com/elevatecrm/backend/internal/application/analytics"
)

// AnalyticsHandler handles dashboard, forecasting and scoring endpoints
type AnalyticsHandler struct {
	BaseHandler
	dashboardService *analyticsapp.DashboardService
	forecastService  *analyticsapp.ForecastService
	scoringService   *analyticsapp.ScoringService
	searchService    *analyticsapp.SearchService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(
	dashboardService *analyticsapp.DashboardService,
	forecastService *analyticsapp.ForecastService,
	scoringService *analyticsapp.ScoringService,
	searchService *analyticsapp.SearchService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		dashboardService: dashboardService,
		forecastService:  forecastService,
		scoringService:   scoringService,
		searchService:    searchService,
	}
}

// RescoreResult reports how many contacts were rescored
// @Description Result of a tenant-wide lead rescore
type RescoreResult struct {
	Rescored int `json:"rescored" example:"42"`
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Get the dashboard snapshot
// @Description  Return the cached tenant dashboard, computing it on a miss
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analyticsapp.DashboardSnapshot]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	snapshot, err := h.dashboardService.Snapshot(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, snapshot)
}

// RefreshDashboard godoc
// @ID           refreshDashboard
// @Summary      Recompute the dashboard snapshot
// @Description  Force a recomputation of the tenant dashboard, bypassing the cache
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analyticsapp.DashboardSnapshot]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/dashboard/refresh [post]
func (h *AnalyticsHandler) RefreshDashboard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	snapshot, err := h.dashboardService.Refresh(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, snapshot)
}

// Forecast godoc
// @ID           forecastProduct
// @Summary      Forecast demand for a product
// @Description  Project daily demand and replenishment advice from the sales ledger
// @Tags         analytics
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[analyticsapp.ProductForecast]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/forecast/{product_id} [get]
func (h *AnalyticsHandler) Forecast(c *gin.Context) {
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

	forecast, err := h.forecastService.ForecastProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, forecast)
}

// ScoreContact godoc
// @ID           scoreContact
// @Summary      Score a contact
// @Description  Recompute and persist the lead score of one contact
// @Tags         analytics
// @Produce      json
// @Param        contact_id path string true "Contact ID" format(uuid)
// @Success      200 {object} APIResponse[analyticsapp.ScoreBreakdown]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/scores/{contact_id} [post]
func (h *AnalyticsHandler) ScoreContact(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contactID, err := uuid.Parse(c.Param("contact_id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	breakdown, err := h.scoringService.ScoreContact(c.Request.Context(), tenantID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, breakdown)
}

// RescoreTenant godoc
// @ID           rescoreTenant
// @Summary      Rescore all stale contacts
// @Description  Walk the tenant's active contacts and refresh stale lead scores
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[RescoreResult]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/scores/rescore [post]
func (h *AnalyticsHandler) RescoreTenant(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	count, err := h.scoringService.RescoreTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RescoreResult{Rescored: count})
}

// Search godoc
// @ID           globalSearch
// @Summary      Search across entities
// @Description  Search contacts, products and orders of the current tenant
// @Tags         analytics
// @Produce      json
// @Param        q query string true "Search query, minimum 2 characters"
// @Success      200 {object} APIResponse[analyticsapp.SearchResults]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /search [get]
func (h *AnalyticsHandler) Search(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), tenantID, c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}
