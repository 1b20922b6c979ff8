package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	crmapp "github.com/elevatecrm/backend/internal/application/crm"
	tradeapp "github.com/elevatecrm/backend/internal/application/trade"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
)

// captureBus collects published events without a running event bus
type captureBus struct {
	events []shared.DomainEvent
}

func (b *captureBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.events = append(b.events, events...)
	return nil
}

// apiFixture wires handlers against sqlite-backed repositories with a
// stubbed authentication context.
type apiFixture struct {
	engine   *gin.Engine
	db       *gorm.DB
	tenantID uuid.UUID
	userID   uuid.UUID
	bus      *captureBus
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	f := &apiFixture{
		engine:   gin.New(),
		db:       db,
		tenantID: uuid.New(),
		userID:   uuid.New(),
		bus:      &captureBus{},
	}

	// Stand-in for the JWT and tenant middleware chain
	f.engine.Use(func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, f.tenantID.String())
		c.Set(middleware.JWTTenantIDKey, f.tenantID.String())
		c.Set(middleware.JWTUserIDKey, f.userID.String())
		c.Next()
	})

	return f
}

func (f *apiFixture) mountContacts(t *testing.T) *crmapp.ContactService {
	t.Helper()

	svc := crmapp.NewContactService(persistence.NewGormContactRepository(f.db), f.bus, zap.NewNop())
	h := NewContactHandler(svc)

	contacts := f.engine.Group("/api/v1/crm/contacts")
	contacts.POST("", h.Create)
	contacts.GET("", h.List)
	contacts.GET("/stats/by-stage", h.CountByStage)
	contacts.GET("/:id", h.Get)
	contacts.PUT("/:id", h.Update)
	contacts.POST("/:id/stage", h.TransitionStage)
	contacts.POST("/:id/assign", h.Assign)
	contacts.POST("/:id/touch", h.RecordTouch)
	contacts.POST("/:id/archive", h.Archive)
	contacts.DELETE("/:id", h.Delete)
	return svc
}

func (f *apiFixture) mountOrders(t *testing.T) *tradeapp.OrderService {
	t.Helper()

	orders := persistence.NewGormOrderRepository(f.db)
	products := persistence.NewGormProductRepository(f.db)
	moves := persistence.NewGormStockMoveRepository(f.db)
	scope := tradeapp.NoOpOrderScope{Orders: orders, Products: products, Moves: moves}

	svc := tradeapp.NewOrderService(orders, products, scope, f.bus, zap.NewNop())
	h := NewOrderHandler(svc)

	group := f.engine.Group("/api/v1/trade/orders")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/number/:number", h.GetByNumber)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.POST("/:id/send", h.Send)
	group.POST("/:id/confirm", h.Confirm)
	group.POST("/:id/fulfill", h.Fulfill)
	group.POST("/:id/cancel", h.Cancel)
	group.POST("/:id/payment", h.RecordPayment)
	group.DELETE("/:id", h.Delete)
	return svc
}

// do performs a request against the fixture's engine and decodes the
// standard response envelope.
func (f *apiFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	envelope := map[string]any{}
	if rec.Body.Len() > 0 && rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataField(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", envelope)
	return data
}

func errorCode(t *testing.T, envelope map[string]any) string {
	t.Helper()
	errObj, ok := envelope["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %v", envelope)
	code, _ := errObj["code"].(string)
	return code
}
