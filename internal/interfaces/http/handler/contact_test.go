package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactCreateAndGet(t *testing.T) {
	f := newAPIFixture(t)
	f.mountContacts(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type":         "lead",
		"first_name":   "Jane",
		"last_name":    "Doe",
		"company_name": "Globex Inc",
		"email":        "jane@globex.com",
		"lead_source":  "webinar",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := dataField(t, envelope)
	assert.Equal(t, "lead", created["stage"])
	assert.Equal(t, "Jane Doe", created["display_name"])

	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec, envelope = f.do(t, http.MethodGet, "/api/v1/crm/contacts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@globex.com", dataField(t, envelope)["email"])
}

func TestContactCreateValidation(t *testing.T) {
	f := newAPIFixture(t)
	f.mountContacts(t)

	rec, envelope := f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type":  "alien",
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ERR_VALIDATION", errorCode(t, envelope))
}

func TestContactStageTransition(t *testing.T) {
	f := newAPIFixture(t)
	f.mountContacts(t)

	_, envelope := f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type": "lead", "first_name": "Stage", "last_name": "Walker",
	})
	id := dataField(t, envelope)["id"].(string)

	rec, envelope := f.do(t, http.MethodPost, "/api/v1/crm/contacts/"+id+"/stage", map[string]any{
		"stage": "sales_qualified",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sales_qualified", dataField(t, envelope)["stage"])
}

func TestContactListFiltersByStage(t *testing.T) {
	f := newAPIFixture(t)
	f.mountContacts(t)

	for _, name := range []string{"Alpha", "Beta"} {
		_, _ = f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
			"type": "lead", "first_name": name, "last_name": "Lead",
		})
	}
	_, envelope := f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type": "lead", "first_name": "Gamma", "last_name": "Qualified",
	})
	id := dataField(t, envelope)["id"].(string)
	rec, _ := f.do(t, http.MethodPost, "/api/v1/crm/contacts/"+id+"/stage", map[string]any{
		"stage": "sales_qualified",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope = f.do(t, http.MethodGet, "/api/v1/crm/contacts?stage=sales_qualified", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items, ok := envelope["data"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	meta, ok := envelope["meta"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, meta["total"])
}

func TestContactGetUnknownReturnsNotFound(t *testing.T) {
	f := newAPIFixture(t)
	f.mountContacts(t)

	rec, envelope := f.do(t, http.MethodGet, "/api/v1/crm/contacts/6a9c7af2-3a66-4f50-9276-1f6f5ddb0d01", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ERR_NOT_FOUND", errorCode(t, envelope))
}

func TestContactCountByStage(t *testing.T) {
	f := newAPIFixture(t)
	f.mountContacts(t)

	_, _ = f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type": "lead", "first_name": "One", "last_name": "Lead",
	})
	_, _ = f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type": "customer", "company_name": "Existing Co",
	})

	rec, envelope := f.do(t, http.MethodGet, "/api/v1/crm/contacts/stats/by-stage", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	counts := dataField(t, envelope)
	assert.EqualValues(t, 1, counts["lead"])
	assert.EqualValues(t, 1, counts["customer"])
}
