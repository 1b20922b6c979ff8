package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/identity"
)

// RegisterInput carries the company sign-up form
type RegisterInput struct {
	CompanyName string
	Subdomain   string
	Email       string
	Password    string
	FirstName   string
	LastName    string
}

// LoginInput carries the credentials for a login attempt. Subdomain
// names the company to log into; emails are only unique per tenant.
type LoginInput struct {
	Subdomain string
	Email     string
	Password  string
}

// UserInfo is the user projection returned to API clients
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Roles       []string   `json:"roles"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserInfo projects a user aggregate for API responses
func NewUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName(),
		Phone:       user.Phone,
		AvatarURL:   user.AvatarURL,
		Roles:       user.Roles,
		IsActive:    user.IsActive,
		IsVerified:  user.IsVerified,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// AuthResult carries tokens plus the authenticated user
type AuthResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RegisterResult carries the new tenant and its admin session
type RegisterResult struct {
	CompanyID uuid.UUID `json:"company_id"`
	Subdomain string    `json:"subdomain"`
	AuthResult
}

// CreateUserInput carries the fields for inviting a user to a tenant
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Roles     []string
}

// UpdateUserInput carries profile updates
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Phone     string
	AvatarURL string
}

// ChangePasswordInput carries a password change request
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// UpdateCompanyInput carries company profile updates
type UpdateCompanyInput struct {
	Name         string
	Email        string
	Phone        string
	Website      string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Timezone     string
	Currency     string
}

// CompanyInfo is the company projection returned to API clients
type CompanyInfo struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Subdomain     string         `json:"subdomain"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Website       string         `json:"website,omitempty"`
	AddressLine1  string         `json:"address_line1,omitempty"`
	AddressLine2  string         `json:"address_line2,omitempty"`
	City          string         `json:"city,omitempty"`
	State         string         `json:"state,omitempty"`
	PostalCode    string         `json:"postal_code,omitempty"`
	Country       string         `json:"country,omitempty"`
	Timezone      string         `json:"timezone"`
	Currency      string         `json:"currency"`
	Plan          string         `json:"plan"`
	PlanExpiresAt *time.Time     `json:"plan_expires_at,omitempty"`
	Settings      map[string]any `json:"settings"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewCompanyInfo projects a company aggregate for API responses
func NewCompanyInfo(company *identity.Company) CompanyInfo {
	return CompanyInfo{
		ID:            company.ID,
		Name:          company.Name,
		Subdomain:     company.Subdomain,
		Email:         company.Email,
		Phone:         company.Phone,
		Website:       company.Website,
		AddressLine1:  company.AddressLine1,
		AddressLine2:  company.AddressLine2,
		City:          company.City,
		State:         company.State,
		PostalCode:    company.PostalCode,
		Country:       company.Country,
		Timezone:      company.Timezone,
		Currency:      company.Currency,
		Plan:          string(company.Plan),
		PlanExpiresAt: company.PlanExpiresAt,
		Settings:      company.Settings,
		IsActive:      company.IsActive,
		CreatedAt:     company.CreatedAt,
	}
}
