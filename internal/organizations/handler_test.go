package organizations

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnews/backend/internal/employees"
	"github.com/ytnews/backend/internal/models"
)

func TestDetailEmbedsMembers(t *testing.T) {
	org := &models.Organization{ID: uuid.New(), Name: "Acme", Slug: "acme", IsActive: true}
	founder := employees.Member{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Email:    "a@x.com",
		FullName: "A",
		Position: models.FounderPosition,
		CanPost:  true,
	}

	raw, err := json.Marshal(&Detail{Organization: org, Employees: []employees.Member{founder}})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	// organization fields stay top-level, members ride along under "employees"
	assert.Equal(t, "acme", got["slug"])
	members, ok := got["employees"].([]any)
	require.True(t, ok)
	require.Len(t, members, 1)
	first := members[0].(map[string]any)
	assert.Equal(t, models.FounderPosition, first["position"])
	assert.Equal(t, "a@x.com", first["email"])
}

func TestDetailEmptyMembersIsList(t *testing.T) {
	org := &models.Organization{ID: uuid.New(), Name: "Solo", Slug: "solo"}
	raw, err := json.Marshal(&Detail{Organization: org, Employees: []employees.Member{}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"employees":[]`)
}
