package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFriendshipIsSymmetric(t *testing.T) {
	m := NewMemory()
	m.AddFriendship(1, 2)

	got, err := m.AreFriends(context.Background(), 2, 1)
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = m.AreFriends(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestRemoveFriendship(t *testing.T) {
	m := NewMemory()
	m.AddFriendship(1, 2)
	m.RemoveFriendship(2, 1)

	got, err := m.AreFriends(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestMembershipActiveFlag(t *testing.T) {
	m := NewMemory()
	m.AddMembership(1, 10, true)
	m.AddMembership(2, 10, false)

	active, err := m.IsActiveMember(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.True(t, active)

	active, err = m.IsActiveMember(context.Background(), 2, 10)
	assert.NoError(t, err)
	assert.False(t, active)
}

func TestFollowIsDirectional(t *testing.T) {
	m := NewMemory()
	m.AddFollow(1, 2)

	got, err := m.IsFollowing(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = m.IsFollowing(context.Background(), 2, 1)
	assert.NoError(t, err)
	assert.False(t, got)
}
