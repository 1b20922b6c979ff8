package crm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContact(t *testing.T) *Contact {
	t.Helper()
	c, err := NewContact(uuid.New(), ContactTypeLead, "Ada", "Lovelace", "", "ADA@Example.com")
	require.NoError(t, err)
	return c
}

func TestNewContact(t *testing.T) {
	c := newTestContact(t)
	assert.Equal(t, StageLead, c.Stage)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, "Ada Lovelace", c.DisplayName())

	events := c.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventContactCreated, events[0].EventType())

	_, err := NewContact(uuid.New(), ContactTypeIndividual, "", "", "", "x@y.com")
	assert.Error(t, err, "a name is required")

	_, err = NewContact(uuid.New(), ContactType("robot"), "A", "B", "", "")
	assert.Error(t, err)
}

func TestContactStageTransitions(t *testing.T) {
	c := newTestContact(t)
	c.ClearDomainEvents()

	require.NoError(t, c.TransitionStage(StageProspect))
	require.NoError(t, c.TransitionStage(StageCustomer))

	events := c.GetDomainEvents()
	require.Len(t, events, 2)
	changed := events[1].(*ContactStageChangedEvent)
	assert.Equal(t, StageProspect, changed.PreviousStage)
	assert.Equal(t, StageCustomer, changed.NewStage)

	// backwards moves are rejected except recycling to lead
	assert.Error(t, c.TransitionStage(StageProspect))
	assert.NoError(t, c.TransitionStage(StageLead))

	// no-op transition emits nothing
	c.ClearDomainEvents()
	require.NoError(t, c.TransitionStage(StageLead))
	assert.Empty(t, c.GetDomainEvents())

	assert.Error(t, c.TransitionStage(LifecycleStage("vip")))
}

func TestContactLeadScoreClamped(t *testing.T) {
	c := newTestContact(t)

	c.SetLeadScore(decimal.NewFromInt(150))
	assert.True(t, c.LeadScore.Equal(decimal.NewFromInt(100)))

	c.SetLeadScore(decimal.NewFromInt(-5))
	assert.True(t, c.LeadScore.IsZero())
}

func TestContactTags(t *testing.T) {
	c := newTestContact(t)
	c.SetTags([]string{"vip", " vip ", "", "newsletter"})
	assert.Equal(t, []string{"vip", "newsletter"}, c.Tags)
}

func TestContactProperties(t *testing.T) {
	c := newTestContact(t)
	c.MergeProperties(map[string]any{"plan": "gold", "seats": 5})
	c.MergeProperties(map[string]any{"plan": nil})
	assert.NotContains(t, c.Properties, "plan")
	assert.Equal(t, 5, c.Properties["seats"])
}

func TestContactTouchTracking(t *testing.T) {
	c := newTestContact(t)
	now := time.Now()
	c.RecordTouch(now)
	require.NotNil(t, c.LastContactedAt)
	require.NotNil(t, c.LastActivityAt)
	assert.Equal(t, now, *c.LastContactedAt)
}
