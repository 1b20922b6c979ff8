package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// SubscriptionPlan represents a company's subscription tier
type SubscriptionPlan string

const (
	PlanFree         SubscriptionPlan = "free"
	PlanStarter      SubscriptionPlan = "starter"
	PlanProfessional SubscriptionPlan = "professional"
	PlanEnterprise   SubscriptionPlan = "enterprise"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Company is the tenant root. Every tenant-owned row in the system
// carries this aggregate's ID as tenant_id.
type Company struct {
	shared.BaseAggregateRoot
	Name          string
	Subdomain     string
	Email         string
	Phone         string
	Website       string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	PostalCode    string
	Country       string
	Timezone      string
	Currency      string
	Plan          SubscriptionPlan
	PlanExpiresAt *time.Time
	Settings      map[string]any
	IsActive      bool
}

// NewCompany creates a new company aggregate
func NewCompany(name, subdomain, email string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company name is required")
	}

	subdomain = NormalizeSubdomain(subdomain)
	if !subdomainPattern.MatchString(subdomain) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Subdomain must be lowercase letters, digits and hyphens")
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Subdomain:         subdomain,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Timezone:          "UTC",
		Currency:          "USD",
		Plan:              PlanFree,
		Settings:          make(map[string]any),
		IsActive:          true,
	}, nil
}

// NormalizeSubdomain lowercases and trims a subdomain candidate
func NormalizeSubdomain(subdomain string) string {
	return strings.ToLower(strings.TrimSpace(subdomain))
}

// UpdateProfile updates the company's contact and address details
func (c *Company) UpdateProfile(name, email, phone, website string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Company name is required")
	}
	c.Name = name
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = phone
	c.Website = website
	c.Touch()
	return nil
}

// UpdateAddress updates the company's address block
func (c *Company) UpdateAddress(line1, line2, city, state, postalCode, country string) {
	c.AddressLine1 = line1
	c.AddressLine2 = line2
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	c.Country = country
	c.Touch()
}

// UpdateLocale sets the company's timezone and default currency
func (c *Company) UpdateLocale(timezone, currency string) error {
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return shared.NewDomainError("INVALID_INPUT", "Unknown timezone")
		}
		c.Timezone = timezone
	}
	if currency != "" {
		if len(currency) != 3 {
			return shared.NewDomainError("INVALID_INPUT", "Currency must be a 3-letter ISO code")
		}
		c.Currency = strings.ToUpper(currency)
	}
	c.Touch()
	return nil
}

// MergeSettings merges the given keys into the company settings document.
// A nil value removes the key.
func (c *Company) MergeSettings(settings map[string]any) {
	if c.Settings == nil {
		c.Settings = make(map[string]any)
	}
	for k, v := range settings {
		if v == nil {
			delete(c.Settings, k)
			continue
		}
		c.Settings[k] = v
	}
	c.Touch()
}

// ChangePlan moves the company to a new subscription plan
func (c *Company) ChangePlan(plan SubscriptionPlan, expiresAt *time.Time) error {
	switch plan {
	case PlanFree, PlanStarter, PlanProfessional, PlanEnterprise:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown subscription plan")
	}
	c.Plan = plan
	c.PlanExpiresAt = expiresAt
	c.Touch()
	return nil
}

// Deactivate suspends the tenant. All API access for its users is
// rejected while inactive.
func (c *Company) Deactivate() {
	c.IsActive = false
	c.Touch()
}

// Activate re-enables a suspended tenant
func (c *Company) Activate() {
	c.IsActive = true
	c.Touch()
}
