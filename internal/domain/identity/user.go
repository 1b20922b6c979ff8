package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// Well-known roles. Roles are free-form strings; these are the ones
// the application assigns itself.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// User is an authenticated member of exactly one company
type User struct {
	shared.TenantAggregateRoot
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	AvatarURL    string
	Roles        []string
	IsActive     bool
	IsVerified   bool
	LastLoginAt  *time.Time
}

// NewUser creates a new user aggregate. The password hash must already
// be computed by the caller; raw passwords never reach the domain.
func NewUser(tenantID uuid.UUID, email, passwordHash, firstName, lastName string, roles []string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid email address")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password hash is required")
	}
	if len(roles) == 0 {
		roles = []string{RoleMember}
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		PasswordHash:        passwordHash,
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		Roles:               roles,
		IsActive:            true,
	}, nil
}

// FullName returns the display name for the user
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// AssignRoles replaces the user's role set
func (u *User) AssignRoles(roles []string) error {
	if len(roles) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "At least one role is required")
	}
	u.Roles = roles
	u.Touch()
	return nil
}

// UpdateProfile updates the user's editable profile fields
func (u *User) UpdateProfile(firstName, lastName, phone, avatarURL string) {
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = phone
	u.AvatarURL = avatarURL
	u.Touch()
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return shared.NewDomainError("INVALID_INPUT", "Password hash is required")
	}
	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}

// Verify marks the user's email as verified
func (u *User) Verify() {
	u.IsVerified = true
	u.Touch()
}

// Activate re-enables a deactivated user
func (u *User) Activate() {
	u.IsActive = true
	u.Touch()
}

// Deactivate disables the user. Deactivated users cannot log in and
// their existing sessions are invalidated by the auth service.
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}
