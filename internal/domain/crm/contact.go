package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/shared"
)

// ContactType classifies a contact record
type ContactType string

const (
	ContactTypeIndividual ContactType = "individual"
	ContactTypeCompany    ContactType = "company"
	ContactTypeLead       ContactType = "lead"
)

// LifecycleStage tracks where a contact sits in the sales funnel
type LifecycleStage string

const (
	StageLead     LifecycleStage = "lead"
	StageProspect LifecycleStage = "prospect"
	StageCustomer LifecycleStage = "customer"
	StagePartner  LifecycleStage = "partner"
)

// stageRank orders lifecycle stages for forward-only promotion checks
var stageRank = map[LifecycleStage]int{
	StageLead:     0,
	StageProspect: 1,
	StageCustomer: 2,
	StagePartner:  3,
}

// ValidStage reports whether s is a known lifecycle stage
func ValidStage(s LifecycleStage) bool {
	_, ok := stageRank[s]
	return ok
}

// Contact is a CRM person or organization belonging to a tenant
type Contact struct {
	shared.TenantAggregateRoot
	Type            ContactType
	FirstName       string
	LastName        string
	CompanyName     string
	Email           string
	Phone           string
	Mobile          string
	JobTitle        string
	AddressLine1    string
	AddressLine2    string
	City            string
	State           string
	PostalCode      string
	Country         string
	Stage           LifecycleStage
	LeadSource      string
	LeadScore       decimal.Decimal
	Industry        string
	AnnualRevenue   decimal.Decimal
	Properties      map[string]any
	Tags            []string
	Notes           string
	AssignedTo      *uuid.UUID
	LastActivityAt  *time.Time
	LastContactedAt *time.Time
	IsActive        bool
}

// NewContact creates a new contact aggregate
func NewContact(tenantID uuid.UUID, contactType ContactType, firstName, lastName, companyName, email string) (*Contact, error) {
	switch contactType {
	case ContactTypeIndividual, ContactTypeCompany, ContactTypeLead:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown contact type")
	}

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	companyName = strings.TrimSpace(companyName)
	if firstName == "" && lastName == "" && companyName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Contact requires a name or company name")
	}

	c := &Contact{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                contactType,
		FirstName:           firstName,
		LastName:            lastName,
		CompanyName:         companyName,
		Email:               strings.ToLower(strings.TrimSpace(email)),
		Stage:               StageLead,
		LeadScore:           decimal.Zero,
		AnnualRevenue:       decimal.Zero,
		Properties:          make(map[string]any),
		Tags:                make([]string, 0),
		IsActive:            true,
	}
	c.AddDomainEvent(NewContactCreatedEvent(c))
	return c, nil
}

// DisplayName returns the human-readable name for lists and search
func (c *Contact) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name != "" {
		return name
	}
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.Email
}

// UpdateDetails updates the contact's core fields
func (c *Contact) UpdateDetails(firstName, lastName, companyName, email, phone, mobile, jobTitle string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	companyName = strings.TrimSpace(companyName)
	if firstName == "" && lastName == "" && companyName == "" {
		return shared.NewDomainError("INVALID_INPUT", "Contact requires a name or company name")
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.CompanyName = companyName
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = phone
	c.Mobile = mobile
	c.JobTitle = jobTitle
	c.Touch()
	return nil
}

// UpdateAddress updates the contact's address block
func (c *Contact) UpdateAddress(line1, line2, city, state, postalCode, country string) {
	c.AddressLine1 = line1
	c.AddressLine2 = line2
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	c.Country = country
	c.Touch()
}

// UpdateBusinessProfile sets industry and revenue estimate
func (c *Contact) UpdateBusinessProfile(industry string, annualRevenue decimal.Decimal) error {
	if annualRevenue.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Annual revenue cannot be negative")
	}
	c.Industry = industry
	c.AnnualRevenue = annualRevenue
	c.Touch()
	return nil
}

// TransitionStage moves the contact to a new lifecycle stage.
// Promotions only move forward; demotion back to lead is allowed for
// recycling stale prospects.
func (c *Contact) TransitionStage(target LifecycleStage) error {
	if !ValidStage(target) {
		return shared.NewDomainError("INVALID_INPUT", "Unknown lifecycle stage")
	}
	if target == c.Stage {
		return nil
	}
	if stageRank[target] < stageRank[c.Stage] && target != StageLead {
		return shared.NewDomainError("INVALID_STATE", "Contacts can only move forward in the funnel")
	}

	previous := c.Stage
	c.Stage = target
	c.Touch()
	c.AddDomainEvent(NewContactStageChangedEvent(c, previous))
	return nil
}

// Assign sets the owning user for the contact
func (c *Contact) Assign(userID uuid.UUID) {
	c.AssignedTo = &userID
	c.Touch()
}

// Unassign clears the owning user
func (c *Contact) Unassign() {
	c.AssignedTo = nil
	c.Touch()
}

// SetLeadSource records where the lead came from
func (c *Contact) SetLeadSource(source string) {
	c.LeadSource = source
	c.Touch()
}

// SetLeadScore stores a computed lead score, clamped to [0, 100]
func (c *Contact) SetLeadScore(score decimal.Decimal) {
	if score.IsNegative() {
		score = decimal.Zero
	}
	if score.GreaterThan(decimal.NewFromInt(100)) {
		score = decimal.NewFromInt(100)
	}
	c.LeadScore = score
	c.Touch()
}

// SetTags replaces the contact's tags, dropping duplicates and blanks
func (c *Contact) SetTags(tags []string) {
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		cleaned = append(cleaned, t)
	}
	c.Tags = cleaned
	c.Touch()
}

// MergeProperties merges custom properties. A nil value removes the key.
func (c *Contact) MergeProperties(props map[string]any) {
	if c.Properties == nil {
		c.Properties = make(map[string]any)
	}
	for k, v := range props {
		if v == nil {
			delete(c.Properties, k)
			continue
		}
		c.Properties[k] = v
	}
	c.Touch()
}

// RecordActivity stamps the last activity time
func (c *Contact) RecordActivity(at time.Time) {
	c.LastActivityAt = &at
	c.Touch()
}

// RecordTouch stamps the last time the contact was reached out to
func (c *Contact) RecordTouch(at time.Time) {
	c.LastContactedAt = &at
	c.LastActivityAt = &at
	c.Touch()
}

// Archive soft-disables the contact
func (c *Contact) Archive() {
	c.IsActive = false
	c.Touch()
}

// Restore re-enables an archived contact
func (c *Contact) Restore() {
	c.IsActive = true
	c.Touch()
}
