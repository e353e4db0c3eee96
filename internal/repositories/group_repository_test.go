package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

func TestRejoinGroupAfterLeaving(t *testing.T) {
	db := testDB(t, &models.Membership{})
	repo := NewPostgresGroupRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateMembership(ctx, &models.Membership{UserID: 7, GroupID: 3, IsActive: true}))
	require.NoError(t, repo.DeleteMembership(ctx, 7, 3))

	require.NoError(t, repo.CreateMembership(ctx, &models.Membership{UserID: 7, GroupID: 3, IsActive: true}))

	active, err := repo.IsActiveMember(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestCreateMembershipRejectsDuplicate(t *testing.T) {
	db := testDB(t, &models.Membership{})
	repo := NewPostgresGroupRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateMembership(ctx, &models.Membership{UserID: 7, GroupID: 3}))

	err := repo.CreateMembership(ctx, &models.Membership{UserID: 7, GroupID: 3})
	assert.ErrorIs(t, err, errs.MembershipExists)
}
