package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
)

// JSONMap stores a map as a JSONB column
type JSONMap map[string]any

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = make(JSONMap)
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONMap source type %T", value)
	}
	if len(data) == 0 {
		*m = make(JSONMap)
		return nil
	}
	return json.Unmarshal(data, m)
}

// StringList stores a string slice as a JSONB column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = make(StringList, 0)
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported StringList source type %T", value)
	}
	if len(data) == 0 {
		*l = make(StringList, 0)
		return nil
	}
	return json.Unmarshal(data, l)
}

// CompanyModel is the GORM model for the companies table
type CompanyModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:255;not null"`
	Subdomain     string    `gorm:"size:63;not null;uniqueIndex"`
	Email         string    `gorm:"size:255"`
	Phone         string    `gorm:"size:50"`
	Website       string    `gorm:"size:255"`
	AddressLine1  string    `gorm:"size:255"`
	AddressLine2  string    `gorm:"size:255"`
	City          string    `gorm:"size:100"`
	State         string    `gorm:"size:100"`
	PostalCode    string    `gorm:"size:20"`
	Country       string    `gorm:"size:100"`
	Timezone      string    `gorm:"size:64;not null;default:UTC"`
	Currency      string    `gorm:"size:3;not null;default:USD"`
	Plan          string    `gorm:"size:20;not null;default:free"`
	PlanExpiresAt *time.Time
	Settings      JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	IsActive      bool    `gorm:"not null;default:true"`
	Version       int     `gorm:"not null;default:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name
func (CompanyModel) TableName() string { return "companies" }

func newCompanyModel(c *identity.Company) *CompanyModel {
	return &CompanyModel{
		ID:            c.ID,
		Name:          c.Name,
		Subdomain:     c.Subdomain,
		Email:         c.Email,
		Phone:         c.Phone,
		Website:       c.Website,
		AddressLine1:  c.AddressLine1,
		AddressLine2:  c.AddressLine2,
		City:          c.City,
		State:         c.State,
		PostalCode:    c.PostalCode,
		Country:       c.Country,
		Timezone:      c.Timezone,
		Currency:      c.Currency,
		Plan:          string(c.Plan),
		PlanExpiresAt: c.PlanExpiresAt,
		Settings:      JSONMap(c.Settings),
		IsActive:      c.IsActive,
		Version:       c.Version,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToDomain converts the model to the domain aggregate
func (m *CompanyModel) ToDomain() *identity.Company {
	return &identity.Company{
		BaseAggregateRoot: baseAggregate(m.ID, m.Version, m.CreatedAt, m.UpdatedAt),
		Name:              m.Name,
		Subdomain:         m.Subdomain,
		Email:             m.Email,
		Phone:             m.Phone,
		Website:           m.Website,
		AddressLine1:      m.AddressLine1,
		AddressLine2:      m.AddressLine2,
		City:              m.City,
		State:             m.State,
		PostalCode:        m.PostalCode,
		Country:           m.Country,
		Timezone:          m.Timezone,
		Currency:          m.Currency,
		Plan:              identity.SubscriptionPlan(m.Plan),
		PlanExpiresAt:     m.PlanExpiresAt,
		Settings:          map[string]any(m.Settings),
		IsActive:          m.IsActive,
	}
}

// UserModel is the GORM model for the users table
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_users_tenant_email,priority:1"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:ux_users_tenant_email,priority:2"`
	PasswordHash string    `gorm:"size:255;not null"`
	FirstName    string    `gorm:"size:100"`
	LastName     string    `gorm:"size:100"`
	Phone        string    `gorm:"size:50"`
	AvatarURL    string    `gorm:"size:512"`
	Roles        StringList `gorm:"type:jsonb;not null;default:'[]'"`
	IsActive     bool       `gorm:"not null;default:true"`
	IsVerified   bool       `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
	CreatedBy    *uuid.UUID `gorm:"type:uuid"`
	Version      int        `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name
func (UserModel) TableName() string { return "users" }

func newUserModel(u *identity.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		TenantID:     u.TenantID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		AvatarURL:    u.AvatarURL,
		Roles:        StringList(u.Roles),
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		LastLoginAt:  u.LastLoginAt,
		CreatedBy:    u.CreatedBy,
		Version:      u.Version,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToDomain converts the model to the domain aggregate
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: tenantAggregate(m.ID, m.TenantID, m.CreatedBy, m.Version, m.CreatedAt, m.UpdatedAt),
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               m.Phone,
		AvatarURL:           m.AvatarURL,
		Roles:               []string(m.Roles),
		IsActive:            m.IsActive,
		IsVerified:          m.IsVerified,
		LastLoginAt:         m.LastLoginAt,
	}
}

// ContactModel is the GORM model for the contacts table
type ContactModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Type            string    `gorm:"size:20;not null"`
	FirstName       string    `gorm:"size:100"`
	LastName        string    `gorm:"size:100"`
	CompanyName     string    `gorm:"size:255"`
	Email           string    `gorm:"size:255;index"`
	Phone           string    `gorm:"size:50"`
	Mobile          string    `gorm:"size:50"`
	JobTitle        string    `gorm:"size:100"`
	AddressLine1    string    `gorm:"size:255"`
	AddressLine2    string    `gorm:"size:255"`
	City            string    `gorm:"size:100"`
	State           string    `gorm:"size:100"`
	PostalCode      string    `gorm:"size:20"`
	Country         string    `gorm:"size:100"`
	Stage           string    `gorm:"size:20;not null;default:lead;index"`
	LeadSource      string    `gorm:"size:100"`
	LeadScore       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	Industry        string          `gorm:"size:100"`
	AnnualRevenue   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Properties      JSONMap         `gorm:"type:jsonb;not null;default:'{}'"`
	Tags            StringList      `gorm:"type:jsonb;not null;default:'[]'"`
	Notes           string          `gorm:"type:text"`
	AssignedTo      *uuid.UUID      `gorm:"type:uuid;index"`
	LastActivityAt  *time.Time
	LastContactedAt *time.Time
	IsActive        bool       `gorm:"not null;default:true"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid"`
	Version         int        `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name
func (ContactModel) TableName() string { return "contacts" }

func newContactModel(c *crm.Contact) *ContactModel {
	return &ContactModel{
		ID:              c.ID,
		TenantID:        c.TenantID,
		Type:            string(c.Type),
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		CompanyName:     c.CompanyName,
		Email:           c.Email,
		Phone:           c.Phone,
		Mobile:          c.Mobile,
		JobTitle:        c.JobTitle,
		AddressLine1:    c.AddressLine1,
		AddressLine2:    c.AddressLine2,
		City:            c.City,
		State:           c.State,
		PostalCode:      c.PostalCode,
		Country:         c.Country,
		Stage:           string(c.Stage),
		LeadSource:      c.LeadSource,
		LeadScore:       c.LeadScore,
		Industry:        c.Industry,
		AnnualRevenue:   c.AnnualRevenue,
		Properties:      JSONMap(c.Properties),
		Tags:            StringList(c.Tags),
		Notes:           c.Notes,
		AssignedTo:      c.AssignedTo,
		LastActivityAt:  c.LastActivityAt,
		LastContactedAt: c.LastContactedAt,
		IsActive:        c.IsActive,
		CreatedBy:       c.CreatedBy,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ToDomain converts the model to the domain aggregate
func (m *ContactModel) ToDomain() *crm.Contact {
	return &crm.Contact{
		TenantAggregateRoot: tenantAggregate(m.ID, m.TenantID, m.CreatedBy, m.Version, m.CreatedAt, m.UpdatedAt),
		Type:                crm.ContactType(m.Type),
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		CompanyName:         m.CompanyName,
		Email:               m.Email,
		Phone:               m.Phone,
		Mobile:              m.Mobile,
		JobTitle:            m.JobTitle,
		AddressLine1:        m.AddressLine1,
		AddressLine2:        m.AddressLine2,
		City:                m.City,
		State:               m.State,
		PostalCode:          m.PostalCode,
		Country:             m.Country,
		Stage:               crm.LifecycleStage(m.Stage),
		LeadSource:          m.LeadSource,
		LeadScore:           m.LeadScore,
		Industry:            m.Industry,
		AnnualRevenue:       m.AnnualRevenue,
		Properties:          map[string]any(m.Properties),
		Tags:                []string(m.Tags),
		Notes:               m.Notes,
		AssignedTo:          m.AssignedTo,
		LastActivityAt:      m.LastActivityAt,
		LastContactedAt:     m.LastContactedAt,
		IsActive:            m.IsActive,
	}
}

// ProductModel is the GORM model for the products table
type ProductModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_products_tenant_sku,priority:1"`
	Name             string    `gorm:"size:255;not null"`
	SKU              string    `gorm:"size:100;not null;uniqueIndex:ux_products_tenant_sku,priority:2"`
	Barcode          string    `gorm:"size:100"`
	Description      string    `gorm:"type:text"`
	Type             string    `gorm:"size:20;not null"`
	Status           string    `gorm:"size:20;not null;default:active;index"`
	Category         string    `gorm:"size:100;index"`
	Brand            string    `gorm:"size:100"`
	CostPrice        decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	SalePrice        decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Currency         string          `gorm:"size:3;not null;default:USD"`
	WeightKg         decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0"`
	LengthCm         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	WidthCm          decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	HeightCm         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	TrackInventory   bool            `gorm:"not null;default:true"`
	QuantityOnHand   decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	QuantityReserved decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	ReorderPoint     decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	ReorderQuantity  decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	ImageURLs        StringList      `gorm:"type:jsonb;not null;default:'[]'"`
	Properties       JSONMap         `gorm:"type:jsonb;not null;default:'{}'"`
	ExternalRefs     JSONMap         `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid"`
	Version          int             `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name
func (ProductModel) TableName() string { return "products" }

func newProductModel(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:               p.ID,
		TenantID:         p.TenantID,
		Name:             p.Name,
		SKU:              p.SKU,
		Barcode:          p.Barcode,
		Description:      p.Description,
		Type:             string(p.Type),
		Status:           string(p.Status),
		Category:         p.Category,
		Brand:            p.Brand,
		CostPrice:        p.CostPrice,
		SalePrice:        p.SalePrice,
		Currency:         p.Currency,
		WeightKg:         p.WeightKg,
		LengthCm:         p.LengthCm,
		WidthCm:          p.WidthCm,
		HeightCm:         p.HeightCm,
		TrackInventory:   p.TrackInventory,
		QuantityOnHand:   p.QuantityOnHand,
		QuantityReserved: p.QuantityReserved,
		ReorderPoint:     p.ReorderPoint,
		ReorderQuantity:  p.ReorderQuantity,
		ImageURLs:        StringList(p.ImageURLs),
		Properties:       JSONMap(p.Properties),
		ExternalRefs:     JSONMap(p.ExternalRefs),
		CreatedBy:        p.CreatedBy,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToDomain converts the model to the domain aggregate
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: tenantAggregate(m.ID, m.TenantID, m.CreatedBy, m.Version, m.CreatedAt, m.UpdatedAt),
		Name:                m.Name,
		SKU:                 m.SKU,
		Barcode:             m.Barcode,
		Description:         m.Description,
		Type:                catalog.ProductType(m.Type),
		Status:              catalog.ProductStatus(m.Status),
		Category:            m.Category,
		Brand:               m.Brand,
		CostPrice:           m.CostPrice,
		SalePrice:           m.SalePrice,
		Currency:            m.Currency,
		WeightKg:            m.WeightKg,
		LengthCm:            m.LengthCm,
		WidthCm:             m.WidthCm,
		HeightCm:            m.HeightCm,
		TrackInventory:      m.TrackInventory,
		QuantityOnHand:      m.QuantityOnHand,
		QuantityReserved:    m.QuantityReserved,
		ReorderPoint:        m.ReorderPoint,
		ReorderQuantity:     m.ReorderQuantity,
		ImageURLs:           []string(m.ImageURLs),
		Properties:          map[string]any(m.Properties),
		ExternalRefs:        map[string]any(m.ExternalRefs),
	}
}

// StockLocationModel is the GORM model for the stock_locations table
type StockLocationModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_locations_tenant_code,priority:1"`
	Name         string    `gorm:"size:255;not null"`
	Code         string    `gorm:"size:50;not null;uniqueIndex:ux_locations_tenant_code,priority:2"`
	Type         string    `gorm:"size:20;not null"`
	AddressLine1 string    `gorm:"size:255"`
	AddressLine2 string    `gorm:"size:255"`
	City         string    `gorm:"size:100"`
	State        string    `gorm:"size:100"`
	PostalCode   string    `gorm:"size:20"`
	Country      string    `gorm:"size:100"`
	IsDefault    bool      `gorm:"not null;default:false"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid"`
	Version      int        `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name
func (StockLocationModel) TableName() string { return "stock_locations" }

func newStockLocationModel(l *catalog.StockLocation) *StockLocationModel {
	return &StockLocationModel{
		ID:           l.ID,
		TenantID:     l.TenantID,
		Name:         l.Name,
		Code:         l.Code,
		Type:         string(l.Type),
		AddressLine1: l.AddressLine1,
		AddressLine2: l.AddressLine2,
		City:         l.City,
		State:        l.State,
		PostalCode:   l.PostalCode,
		Country:      l.Country,
		IsDefault:    l.IsDefault,
		IsActive:     l.IsActive,
		CreatedBy:    l.CreatedBy,
		Version:      l.Version,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// ToDomain converts the model to the domain aggregate
func (m *StockLocationModel) ToDomain() *catalog.StockLocation {
	return &catalog.StockLocation{
		TenantAggregateRoot: tenantAggregate(m.ID, m.TenantID, m.CreatedBy, m.Version, m.CreatedAt, m.UpdatedAt),
		Name:                m.Name,
		Code:                m.Code,
		Type:                catalog.LocationType(m.Type),
		AddressLine1:        m.AddressLine1,
		AddressLine2:        m.AddressLine2,
		City:                m.City,
		State:               m.State,
		PostalCode:          m.PostalCode,
		Country:             m.Country,
		IsDefault:           m.IsDefault,
		IsActive:            m.IsActive,
	}
}

// StockMoveModel is the GORM model for the stock_moves ledger table
type StockMoveModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	FromLocationID *uuid.UUID `gorm:"type:uuid"`
	ToLocationID   *uuid.UUID `gorm:"type:uuid"`
	Quantity       decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitCost       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Type           string          `gorm:"size:20;not null;index"`
	Status         string          `gorm:"size:20;not null;default:pending"`
	ReferenceType  string          `gorm:"size:50"`
	ReferenceID    *uuid.UUID      `gorm:"type:uuid;index"`
	Notes          string          `gorm:"type:text"`
	MovedAt        time.Time       `gorm:"not null;index"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	Version        int             `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name
func (StockMoveModel) TableName() string { return "stock_moves" }

func newStockMoveModel(s *inventory.StockMove) *StockMoveModel {
	return &StockMoveModel{
		ID:             s.ID,
		TenantID:       s.TenantID,
		ProductID:      s.ProductID,
		FromLocationID: s.FromLocationID,
		ToLocationID:   s.ToLocationID,
		Quantity:       s.Quantity,
		UnitCost:       s.UnitCost,
		Type:           string(s.Type),
		Status:         string(s.Status),
		ReferenceType:  s.ReferenceType,
		ReferenceID:    s.ReferenceID,
		Notes:          s.Notes,
		MovedAt:        s.MovedAt,
		CreatedBy:      s.CreatedBy,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToDomain converts the model to the domain aggregate
func (m *StockMoveModel) ToDomain() *inventory.StockMove {
	return &inventory.StockMove{
		TenantAggregateRoot: tenantAggregate(m.ID, m.TenantID, m.CreatedBy, m.Version, m.CreatedAt, m.UpdatedAt),
		ProductID:           m.ProductID,
		FromLocationID:      m.FromLocationID,
		ToLocationID:        m.ToLocationID,
		Quantity:            m.Quantity,
		UnitCost:            m.UnitCost,
		Type:                inventory.MovementType(m.Type),
		Status:              inventory.MoveStatus(m.Status),
		ReferenceType:       m.ReferenceType,
		ReferenceID:         m.ReferenceID,
		Notes:               m.Notes,
		MovedAt:             m.MovedAt,
	}
}

// OrderModel is the GORM model for the orders table
type OrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_orders_tenant_number,priority:1"`
	OrderNumber     string    `gorm:"size:30;not null;uniqueIndex:ux_orders_tenant_number,priority:2"`
	Type            string    `gorm:"size:20;not null"`
	Status          string    `gorm:"size:20;not null;default:draft;index"`
	ContactID       *uuid.UUID `gorm:"type:uuid;index"`
	BillingAddress  JSONMap    `gorm:"type:jsonb;not null;default:'{}'"`
	ShippingAddress JSONMap    `gorm:"type:jsonb;not null;default:'{}'"`
	Currency        string     `gorm:"size:3;not null;default:USD"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	DiscountTotal   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TaxTotal        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ShippingCost    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	PaymentStatus   string          `gorm:"size:20;not null;default:unpaid"`
	Notes           string          `gorm:"type:text"`
	OrderDate       time.Time       `gorm:"not null;index"`
	SentAt          *time.Time
	ConfirmedAt     *time.Time
	FulfilledAt     *time.Time
	CancelledAt     *time.Time
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
	Version         int             `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LineItems       []LineItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name
func (OrderModel) TableName() string { return "orders" }

func newOrderModel(o *trade.Order) *OrderModel {
	items := make([]LineItemModel, 0, len(o.LineItems))
	for i := range o.LineItems {
		items = append(items, *newLineItemModel(&o.LineItems[i]))
	}
	return &OrderModel{
		ID:              o.ID,
		TenantID:        o.TenantID,
		OrderNumber:     o.OrderNumber,
		Type:            string(o.Type),
		Status:          string(o.Status),
		ContactID:       o.ContactID,
		BillingAddress:  JSONMap(o.BillingAddress),
		ShippingAddress: JSONMap(o.ShippingAddress),
		Currency:        o.Currency,
		Subtotal:        o.Subtotal,
		DiscountTotal:   o.DiscountTotal,
		TaxTotal:        o.TaxTotal,
		ShippingCost:    o.ShippingCost,
		Total:           o.Total,
		PaymentStatus:   string(o.PaymentStatus),
		Notes:           o.Notes,
		OrderDate:       o.OrderDate,
		SentAt:          o.SentAt,
		ConfirmedAt:     o.ConfirmedAt,
		FulfilledAt:     o.FulfilledAt,
		CancelledAt:     o.CancelledAt,
		CreatedBy:       o.CreatedBy,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		LineItems:       items,
	}
}

// ToDomain converts the model to the domain aggregate
func (m *OrderModel) ToDomain() *trade.Order {
	items := make([]trade.LineItem, 0, len(m.LineItems))
	for i := range m.LineItems {
		items = append(items, *m.LineItems[i].ToDomain())
	}
	return &trade.Order{
		TenantAggregateRoot: tenantAggregate(m.ID, m.TenantID, m.CreatedBy, m.Version, m.CreatedAt, m.UpdatedAt),
		OrderNumber:         m.OrderNumber,
		Type:                trade.OrderType(m.Type),
		Status:              trade.OrderStatus(m.Status),
		ContactID:           m.ContactID,
		BillingAddress:      map[string]any(m.BillingAddress),
		ShippingAddress:     map[string]any(m.ShippingAddress),
		Currency:            m.Currency,
		Subtotal:            m.Subtotal,
		DiscountTotal:       m.DiscountTotal,
		TaxTotal:            m.TaxTotal,
		ShippingCost:        m.ShippingCost,
		Total:               m.Total,
		PaymentStatus:       trade.PaymentStatus(m.PaymentStatus),
		Notes:               m.Notes,
		OrderDate:           m.OrderDate,
		SentAt:              m.SentAt,
		ConfirmedAt:         m.ConfirmedAt,
		FulfilledAt:         m.FulfilledAt,
		CancelledAt:         m.CancelledAt,
		LineItems:           items,
	}
}

// LineItemModel is the GORM model for the order_line_items table
type LineItemModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	TenantID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID `gorm:"type:uuid;index"`
	Name            string     `gorm:"size:255;not null"`
	SKU             string     `gorm:"size:100"`
	Quantity        decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name
func (LineItemModel) TableName() string { return "order_line_items" }

func newLineItemModel(li *trade.LineItem) *LineItemModel {
	return &LineItemModel{
		ID:              li.ID,
		OrderID:         li.OrderID,
		TenantID:        li.TenantID,
		ProductID:       li.ProductID,
		Name:            li.Name,
		SKU:             li.SKU,
		Quantity:        li.Quantity,
		UnitPrice:       li.UnitPrice,
		DiscountPercent: li.DiscountPercent,
		TaxPercent:      li.TaxPercent,
		DiscountAmount:  li.DiscountAmount,
		TaxAmount:       li.TaxAmount,
		LineTotal:       li.LineTotal,
		CreatedAt:       li.CreatedAt,
		UpdatedAt:       li.UpdatedAt,
	}
}

// ToDomain converts the model to the domain entity
func (m *LineItemModel) ToDomain() *trade.LineItem {
	return &trade.LineItem{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		OrderID:         m.OrderID,
		TenantID:        m.TenantID,
		ProductID:       m.ProductID,
		Name:            m.Name,
		SKU:             m.SKU,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		TaxPercent:      m.TaxPercent,
		DiscountAmount:  m.DiscountAmount,
		TaxAmount:       m.TaxAmount,
		LineTotal:       m.LineTotal,
	}
}

// OrderSequenceModel backs per-tenant order numbering. One row per
// tenant and prefix, bumped inside the order Save transaction.
type OrderSequenceModel struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix   string    `gorm:"size:10;primaryKey"`
	Value    int64     `gorm:"not null;default:0"`
}

// TableName returns the table name
func (OrderSequenceModel) TableName() string { return "order_sequences" }

// AllModels lists every GORM model for schema setup in tests
func AllModels() []any {
	return []any{
		&CompanyModel{},
		&UserModel{},
		&ContactModel{},
		&ProductModel{},
		&StockLocationModel{},
		&StockMoveModel{},
		&OrderModel{},
		&LineItemModel{},
		&OrderSequenceModel{},
	}
}

func baseAggregate(id uuid.UUID, version int, createdAt, updatedAt time.Time) shared.BaseAggregateRoot {
	root := shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        id,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
	}
	root.Version = version
	return root
}

func tenantAggregate(id, tenantID uuid.UUID, createdBy *uuid.UUID, version int, createdAt, updatedAt time.Time) shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: baseAggregate(id, version, createdAt, updatedAt),
		TenantID:          tenantID,
		CreatedBy:         createdBy,
	}
}
