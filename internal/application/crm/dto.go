package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/crm"
)

// CreateContactInput carries the fields for a new contact
type CreateContactInput struct {
	Type          string
	FirstName     string
	LastName      string
	CompanyName   string
	Email         string
	Phone         string
	Mobile        string
	JobTitle      string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	PostalCode    string
	Country       string
	LeadSource    string
	Industry      string
	AnnualRevenue decimal.Decimal
	Tags          []string
	Notes         string
	AssignedTo    *uuid.UUID
}

// UpdateContactInput carries contact profile updates
type UpdateContactInput struct {
	FirstName     string
	LastName      string
	CompanyName   string
	Email         string
	Phone         string
	Mobile        string
	JobTitle      string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	PostalCode    string
	Country       string
	Industry      string
	AnnualRevenue decimal.Decimal
	Tags          []string
	Notes         string
}

// ContactInfo is the contact projection returned to API clients
type ContactInfo struct {
	ID              uuid.UUID       `json:"id"`
	Type            string          `json:"type"`
	FirstName       string          `json:"first_name,omitempty"`
	LastName        string          `json:"last_name,omitempty"`
	CompanyName     string          `json:"company_name,omitempty"`
	DisplayName     string          `json:"display_name"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Mobile          string          `json:"mobile,omitempty"`
	JobTitle        string          `json:"job_title,omitempty"`
	AddressLine1    string          `json:"address_line1,omitempty"`
	AddressLine2    string          `json:"address_line2,omitempty"`
	City            string          `json:"city,omitempty"`
	State           string          `json:"state,omitempty"`
	PostalCode      string          `json:"postal_code,omitempty"`
	Country         string          `json:"country,omitempty"`
	Stage           string          `json:"stage"`
	LeadSource      string          `json:"lead_source,omitempty"`
	LeadScore       decimal.Decimal `json:"lead_score"`
	Industry        string          `json:"industry,omitempty"`
	AnnualRevenue   decimal.Decimal `json:"annual_revenue"`
	Properties      map[string]any  `json:"properties,omitempty"`
	Tags            []string        `json:"tags"`
	Notes           string          `json:"notes,omitempty"`
	AssignedTo      *uuid.UUID      `json:"assigned_to,omitempty"`
	LastActivityAt  *time.Time      `json:"last_activity_at,omitempty"`
	LastContactedAt *time.Time      `json:"last_contacted_at,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewContactInfo projects a contact aggregate for API responses
func NewContactInfo(contact *crm.Contact) ContactInfo {
	return ContactInfo{
		ID:              contact.ID,
		Type:            string(contact.Type),
		FirstName:       contact.FirstName,
		LastName:        contact.LastName,
		CompanyName:     contact.CompanyName,
		DisplayName:     contact.DisplayName(),
		Email:           contact.Email,
		Phone:           contact.Phone,
		Mobile:          contact.Mobile,
		JobTitle:        contact.JobTitle,
		AddressLine1:    contact.AddressLine1,
		AddressLine2:    contact.AddressLine2,
		City:            contact.City,
		State:           contact.State,
		PostalCode:      contact.PostalCode,
		Country:         contact.Country,
		Stage:           string(contact.Stage),
		LeadSource:      contact.LeadSource,
		LeadScore:       contact.LeadScore,
		Industry:        contact.Industry,
		AnnualRevenue:   contact.AnnualRevenue,
		Properties:      contact.Properties,
		Tags:            contact.Tags,
		Notes:           contact.Notes,
		AssignedTo:      contact.AssignedTo,
		LastActivityAt:  contact.LastActivityAt,
		LastContactedAt: contact.LastContactedAt,
		IsActive:        contact.IsActive,
		CreatedAt:       contact.CreatedAt,
		UpdatedAt:       contact.UpdatedAt,
	}
}
