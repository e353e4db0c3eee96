// Package graph exposes the relationship graph: symmetric friendship
// edges, directed follow edges and group membership edges. It only
// answers adjacency queries; the business rules that create edges
// (friend request flow, membership confirmation) live in the handlers.
package graph

import "context"

// FriendshipStore answers symmetric friendship lookups.
type FriendshipStore interface {
	AreFriends(ctx context.Context, a, b uint) (bool, error)
}

// MembershipStore answers group membership lookups.
type MembershipStore interface {
	IsActiveMember(ctx context.Context, userID, groupID uint) (bool, error)
}

// FollowStore answers directed follow lookups.
type FollowStore interface {
	IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error)
}

// Store is the repository-backed relationship graph. It satisfies
// visibility.Graph.
type Store struct {
	friendships FriendshipStore
	memberships MembershipStore
	follows     FollowStore
}

// NewStore returns a graph backed by the given stores.
func NewStore(friendships FriendshipStore, memberships MembershipStore, follows FollowStore) *Store {
	return &Store{
		friendships: friendships,
		memberships: memberships,
		follows:     follows,
	}
}

// AreFriends reports whether a and b are friends. The lookup is symmetric.
func (s *Store) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	return s.friendships.AreFriends(ctx, a, b)
}

// IsActiveMember reports whether the user is an active (confirmed) member
// of the group.
func (s *Store) IsActiveMember(ctx context.Context, userID, groupID uint) (bool, error) {
	return s.memberships.IsActiveMember(ctx, userID, groupID)
}

// IsFollowing reports whether follower follows target.
func (s *Store) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, targetID)
}
