package handler

import (
	"net/http"
	"testing"
)

func TestScratchByStageDebug(t *testing.T) {
	f := newAPIFixture(t)
	f.mountContacts(t)

	rec, env := f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type": "lead", "first_name": "One", "last_name": "Lead",
	})
	t.Logf("lead create: %d %v", rec.Code, env)

	rec, env = f.do(t, http.MethodPost, "/api/v1/crm/contacts", map[string]any{
		"type": "customer", "company_name": "Existing Co",
	})
	t.Logf("customer create: %d %v", rec.Code, env)

	rec, env = f.do(t, http.MethodGet, "/api/v1/crm/contacts/stats/by-stage", nil)
	t.Logf("stats: %d %v", rec.Code, env)
}
