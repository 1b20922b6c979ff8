package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
)

type contactPayload struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
	Stage string `json:"stage" binding:"omitempty,oneof=lead prospect customer"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/contacts", func(c *gin.Context) {
		var payload contactPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleValidationError_ReportsJSONFieldNames(t *testing.T) {
	rec := postJSON(validationRouter(), `{"email":"not-an-email","name":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)

	byField := map[string]string{}
	for _, d := range resp.Error.Details {
		byField[d.Field] = d.Message
	}
	// Details are keyed by the json tag, not the Go field name.
	assert.Equal(t, "Invalid email format", byField["email"])
	assert.Equal(t, "Must be at least 2 characters", byField["name"])
}

func TestHandleValidationError_RequiredAndOneof(t *testing.T) {
	rec := postJSON(validationRouter(), `{"email":"a@b.example","name":"Ada","stage":"galaxy"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "stage", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be one of: lead prospect customer", resp.Error.Details[0].Message)
}

func TestHandleValidationError_ValidPayload(t *testing.T) {
	rec := postJSON(validationRouter(), `{"email":"a@b.example","name":"Ada","stage":"lead"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	// Malformed JSON produces a syntax error, not validator errors.
	rec := postJSON(validationRouter(), `{"email":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
}

func TestFormatValidationErrors_CarriesRequestID(t *testing.T) {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/contacts", func(c *gin.Context) {
		var payload contactPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDKey, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
