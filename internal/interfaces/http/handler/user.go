package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/elevatecrm/backend/internal/application/identity"
	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user management API endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest represents a request to invite a user to the tenant
// @Description Request body for creating a new user
type CreateUserRequest struct {
	Email     string   `json:"email" binding:"required,email,max=200" example:"sales@acme.com"`
	Password  string   `json:"password" binding:"required,min=8,max=128"`
	FirstName string   `json:"first_name" binding:"required,max=100" example:"John"`
	LastName  string   `json:"last_name" binding:"required,max=100" example:"Smith"`
	Phone     string   `json:"phone" binding:"max=50" example:"+15550100"`
	Roles     []string `json:"roles" binding:"omitempty,dive,oneof=admin manager sales support readonly"`
}

// UpdateUserRequest represents a request to update a user profile
// @Description Request body for updating a user
type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,max=100" example:"John"`
	LastName  string `json:"last_name" binding:"omitempty,max=100" example:"Smith"`
	Phone     string `json:"phone" binding:"omitempty,max=50" example:"+15550100"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// AssignRolesRequest represents a request to replace a user's roles
// @Description Request body for assigning roles
type AssignRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,oneof=admin manager sales support readonly"`
}

// Create godoc
// @ID           createUser
// @Summary      Create a new user
// @Description  Invite a new user to the current tenant
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User creation request"
// @Success      201 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	createdBy, _ := getUserID(c)

	user, err := h.userService.Create(c.Request.Context(), tenantID, createdBy, identityapp.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Roles:     req.Roles,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  List users of the current tenant with pagination
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or email"
// @Success      200 {object} APIResponse[[]identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users [get]
func (h *UserHandler) List(c *gin.Context) {
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

	result, err := h.userService.List(c.Request.Context(), tenantID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getUserById
// @Summary      Get user by ID
// @Description  Retrieve one user of the current tenant
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Description  Update profile fields of a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body UpdateUserRequest true "User update request"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), tenantID, userID, identityapp.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// AssignRoles godoc
// @ID           assignUserRoles
// @Summary      Assign roles to a user
// @Description  Replace the user's role set
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body AssignRolesRequest true "Roles to assign"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users/{id}/roles [put]
func (h *UserHandler) AssignRoles(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.userService.AssignRoles(c.Request.Context(), tenantID, userID, req.Roles)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Activate godoc
// @ID           activateUser
// @Summary      Activate a user
// @Description  Re-enable a deactivated user account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.userService.Activate(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "User activated"})
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Description  Disable a user account and block future logins
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "User deactivated"})
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Description  Soft-delete a user from the tenant
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
