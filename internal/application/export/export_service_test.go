package export_test

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	exportapp "github.com/elevatecrm/backend/internal/application/export"
	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence"
	"github.com/elevatecrm/backend/internal/infrastructure/storage"
)

type exportFixture struct {
	svc      *exportapp.ExportService
	store    *storage.MemoryStore
	contacts *persistence.GormContactRepository
	orders   *persistence.GormOrderRepository
	tenantID uuid.UUID
}

func newExportFixture(t *testing.T, maxRows int) *exportFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	contacts := persistence.NewGormContactRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	store := storage.NewMemoryStore()

	cfg := config.ExportConfig{
		Bucket:     "exports",
		PresignTTL: time.Hour,
		MaxRows:    maxRows,
	}

	return &exportFixture{
		svc:      exportapp.NewExportService(contacts, orders, store, cfg, zap.NewNop()),
		store:    store,
		contacts: contacts,
		orders:   orders,
		tenantID: uuid.New(),
	}
}

func (f *exportFixture) seedContacts(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		contact, err := crm.NewContact(f.tenantID, crm.ContactTypeLead, "Lead", string(rune('A'+i)), "", "")
		require.NoError(t, err)
		contact.ClearDomainEvents()
		require.NoError(t, f.contacts.Save(context.Background(), contact))
	}
}

func parseCSV(t *testing.T, body []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportContactsWritesCSV(t *testing.T) {
	f := newExportFixture(t, 1000)
	ctx := context.Background()
	f.seedContacts(t, 3)

	result, err := f.svc.ExportContacts(ctx, f.tenantID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rows)
	assert.False(t, result.Truncated)
	assert.Contains(t, result.Key, "exports/"+f.tenantID.String()+"/contacts-")
	assert.NotEmpty(t, result.URL)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	body, contentType, ok := f.store.Object(result.Key)
	require.True(t, ok)
	assert.Equal(t, "text/csv", contentType)

	records := parseCSV(t, body)
	require.Len(t, records, 4)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "lead", records[1][7])
}

func TestExportContactsTruncatesAtMaxRows(t *testing.T) {
	f := newExportFixture(t, 2)
	ctx := context.Background()
	f.seedContacts(t, 5)

	result, err := f.svc.ExportContacts(ctx, f.tenantID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rows)
	assert.True(t, result.Truncated)

	body, _, ok := f.store.Object(result.Key)
	require.True(t, ok)
	records := parseCSV(t, body)
	assert.Len(t, records, 3)
}

func TestExportOrdersWritesCSV(t *testing.T) {
	f := newExportFixture(t, 1000)
	ctx := context.Background()

	order, err := trade.NewOrder(f.tenantID, trade.OrderTypeSalesOrder)
	require.NoError(t, err)
	item, err := trade.NewLineItem(nil, "Widget", "WID-1", decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, order.AddLineItem(*item))
	require.NoError(t, f.orders.Save(ctx, order))

	result, err := f.svc.ExportOrders(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)

	body, _, ok := f.store.Object(result.Key)
	require.True(t, ok)
	records := parseCSV(t, body)
	require.Len(t, records, 2)
	assert.Equal(t, "ORD-000001", records[1][1])
	assert.Equal(t, "100", records[1][10])
}

func TestExportIsTenantScoped(t *testing.T) {
	f := newExportFixture(t, 1000)
	ctx := context.Background()
	f.seedContacts(t, 2)

	foreign, err := crm.NewContact(uuid.New(), crm.ContactTypeLead, "Other", "Tenant", "", "")
	require.NoError(t, err)
	require.NoError(t, f.contacts.Save(ctx, foreign))

	result, err := f.svc.ExportContacts(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
}

func TestExportEmptyTenantProducesHeaderOnly(t *testing.T) {
	f := newExportFixture(t, 1000)

	result, err := f.svc.ExportContacts(context.Background(), f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Rows)

	body, _, ok := f.store.Object(result.Key)
	require.True(t, ok)
	records := parseCSV(t, body)
	assert.Len(t, records, 1)
}