package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouterDefaults(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetupMountsGroupUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	crm := NewDomainGroup("crm", "/crm")
	crm.GET("/contacts", func(c *gin.Context) {
		c.String(http.StatusOK, "contacts")
	})

	r.Register(crm).Setup()

	w := perform(engine, "GET", "/api/v1/crm/contacts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "contacts", w.Body.String())
}

func TestDomainGroupNameAndPrefix(t *testing.T) {
	g := NewDomainGroup("catalog", "/catalog")

	assert.Equal(t, "catalog", g.Name())
	assert.Equal(t, "/catalog", g.Prefix())
}

func TestDomainGroupRegistersAllMethods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("catalog", "/catalog")

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	g.GET("/products", ok).
		POST("/products", ok).
		PUT("/products/:id", ok).
		PATCH("/products/:id", ok).
		DELETE("/products/:id", ok)

	g.RegisterRoutes(engine.Group("/api/v1"))

	for _, tt := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/catalog/products"},
		{"POST", "/api/v1/catalog/products"},
		{"PUT", "/api/v1/catalog/products/123"},
		{"PATCH", "/api/v1/catalog/products/123"},
		{"DELETE", "/api/v1/catalog/products/123"},
	} {
		w := perform(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestDomainGroupAppliesMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("crm", "/crm")

	g.Use(func(c *gin.Context) {
		c.Header("X-Scope", "crm")
		c.Next()
	})
	g.GET("/contacts", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := perform(engine, "GET", "/api/v1/crm/contacts")
	assert.Equal(t, "crm", w.Header().Get("X-Scope"))
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("inventory", "/inventory")

	moves := g.Group("moves", "/moves")
	moves.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "moves list")
	})

	locations := g.Group("locations", "/locations")
	locations.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "locations list")
	})

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := perform(engine, "GET", "/api/v1/inventory/moves")
	assert.Equal(t, "moves list", w.Body.String())

	w = perform(engine, "GET", "/api/v1/inventory/locations")
	assert.Equal(t, "locations list", w.Body.String())
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "products")
	})

	trade := NewDomainGroup("trade", "/trade")
	trade.GET("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, "orders")
	})

	r.Register(catalog).Register(trade)
	r.Setup()

	w := perform(engine, "GET", "/api/v1/catalog/products")
	assert.Equal(t, "products", w.Body.String())

	w = perform(engine, "GET", "/api/v1/trade/orders")
	assert.Equal(t, "orders", w.Body.String())
}
