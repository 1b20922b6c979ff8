package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/elevatecrm/backend/internal/application/identity"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRequest represents a company sign-up request
// @Description Request body for registering a new company and its admin user
type RegisterRequest struct {
	CompanyName string `json:"company_name" binding:"required,min=2,max=200" example:"Acme Corp"`
	Subdomain   string `json:"subdomain" binding:"required,min=3,max=63" example:"acme"`
	Email       string `json:"email" binding:"required,email,max=200" example:"owner@acme.com"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	FirstName   string `json:"first_name" binding:"required,max=100" example:"Jane"`
	LastName    string `json:"last_name" binding:"required,max=100" example:"Doe"`
}

// LoginRequest represents a login request. The subdomain picks the
// company to log into; the same email may exist under several tenants.
// @Description Request body for logging in with company subdomain, email and password
type LoginRequest struct {
	Subdomain string `json:"subdomain" binding:"required,min=3,max=63" example:"acme"`
	Email     string `json:"email" binding:"required,email" example:"owner@acme.com"`
	Password  string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
// @Description Request body for exchanging a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change request
// @Description Request body for changing the current user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// Register godoc
// @ID           registerCompany
// @Summary      Register a new company
// @Description  Create a new tenant with its first admin user and return a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} APIResponse[identityapp.RegisterResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		CompanyName: req.CompanyName,
		Subdomain:   req.Subdomain,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login godoc
// @ID           login
// @Summary      User login
// @Description  Authenticate with email and password and return a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identityapp.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Subdomain: req.Subdomain,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Refresh access token
// @Description  Exchange a valid refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout godoc
// @ID           logout
// @Summary      Log out
// @Description  Revoke the current access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Logged out"})
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Get current user
// @Description  Return the profile of the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), claims.TenantID, claims.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Description  Change the current user's password and invalidate existing sessions
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Password change request"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), claims.TenantID, claims.UserID, identityapp.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Password changed"})
}
