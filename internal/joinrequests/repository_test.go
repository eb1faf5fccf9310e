package joinrequests

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnews/backend/internal/models"
	"github.com/ytnews/backend/pkg/database"
)

// testPool connects to the database named by TEST_DATABASE_URL and runs the
// schema. Tests needing it are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id`,
		fmt.Sprintf("%s@test.local", uuid.NewString())).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedOrg(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO organizations (name, slug) VALUES ('Test Org', $1) RETURNING id`,
		uuid.NewString()).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestAcceptCreatesEmployeeAtomically(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewRepository(pool)

	userID := seedUser(t, pool)
	orgID := seedOrg(t, pool)

	jr, err := repo.Create(ctx, userID, orgID, "Editor", "hi")
	require.NoError(t, err)
	require.Equal(t, models.JoinRequestPending, jr.Status)

	accepted, err := repo.Accept(ctx, jr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestAccepted, accepted.Status)

	// exactly one active, can_post employee with the requested position
	var count int
	var position string
	var isActive, canPost bool
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(position), BOOL_AND(is_active), BOOL_AND(can_post)
		 FROM employees WHERE user_id = $1 AND organization_id = $2`,
		userID, orgID).Scan(&count, &position, &isActive, &canPost)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "Editor", position)
	assert.True(t, isActive)
	assert.True(t, canPost)

	// the decided request stays on record and cannot be decided again
	_, err = repo.Accept(ctx, jr.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = repo.Reject(ctx, jr.ID)
	assert.ErrorIs(t, err, ErrNotPending)

	got, err := repo.GetByID(ctx, jr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestAccepted, got.Status)
}

func TestRejectCreatesNoEmployee(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewRepository(pool)

	userID := seedUser(t, pool)
	orgID := seedOrg(t, pool)

	jr, err := repo.Create(ctx, userID, orgID, "Editor", "")
	require.NoError(t, err)

	rejected, err := repo.Reject(ctx, jr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestRejected, rejected.Status)

	var count int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE user_id = $1 AND organization_id = $2`,
		userID, orgID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// a rejected request no longer shows up as pending
	_, err = repo.GetPendingByUserAndOrg(ctx, userID, orgID)
	assert.Error(t, err)
}
