package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/models"
)

func TestRefriendAfterUnfriend(t *testing.T) {
	db := testDB(t, &models.FriendRequest{})
	repo := NewPostgresFriendshipRepository(db)
	ctx := context.Background()

	fr := &models.FriendRequest{SenderID: 1, ReceiverID: 2}
	require.NoError(t, repo.SendFriendRequest(ctx, fr))
	require.NoError(t, repo.UpdateFriendRequestStatus(ctx, fr.ID, models.FriendRequestAccepted))

	friends, err := repo.AreFriends(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, friends)

	require.NoError(t, repo.DeleteFriendship(ctx, 1, 2))

	friends, err = repo.AreFriends(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, friends)

	// The same pair, same direction, must be able to start over.
	again := &models.FriendRequest{SenderID: 1, ReceiverID: 2}
	require.NoError(t, repo.SendFriendRequest(ctx, again))
	assert.Equal(t, models.FriendRequestPending, again.Status)
}

func TestSendFriendRequestRejectsDuplicates(t *testing.T) {
	db := testDB(t, &models.FriendRequest{})
	repo := NewPostgresFriendshipRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SendFriendRequest(ctx, &models.FriendRequest{SenderID: 1, ReceiverID: 2}))

	err := repo.SendFriendRequest(ctx, &models.FriendRequest{SenderID: 2, ReceiverID: 1})
	assert.Error(t, err)
}
