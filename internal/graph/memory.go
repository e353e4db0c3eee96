package graph

import (
	"context"
	"sync"
)

// Memory is an in-memory relationship graph. It backs unit tests of the
// visibility evaluator and the notification engine, where spinning up
// Postgres would only get in the way.
type Memory struct {
	mu          sync.RWMutex
	friendships map[[2]uint]bool
	memberships map[[2]uint]bool // (user, group) -> active
	follows     map[[2]uint]bool
}

// NewMemory returns an empty in-memory graph.
func NewMemory() *Memory {
	return &Memory{
		friendships: make(map[[2]uint]bool),
		memberships: make(map[[2]uint]bool),
		follows:     make(map[[2]uint]bool),
	}
}

func pairKey(a, b uint) [2]uint {
	if a > b {
		a, b = b, a
	}
	return [2]uint{a, b}
}

// AddFriendship records a symmetric friendship edge.
func (m *Memory) AddFriendship(a, b uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.friendships[pairKey(a, b)] = true
}

// RemoveFriendship deletes the edge between a and b.
func (m *Memory) RemoveFriendship(a, b uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.friendships, pairKey(a, b))
}

// AddMembership records a group membership edge.
func (m *Memory) AddMembership(userID, groupID uint, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberships[[2]uint{userID, groupID}] = active
}

// AddFollow records a directed follow edge.
func (m *Memory) AddFollow(followerID, targetID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.follows[[2]uint{followerID, targetID}] = true
}

func (m *Memory) AreFriends(_ context.Context, a, b uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.friendships[pairKey(a, b)], nil
}

func (m *Memory) IsActiveMember(_ context.Context, userID, groupID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.memberships[[2]uint{userID, groupID}], nil
}

func (m *Memory) IsFollowing(_ context.Context, followerID, targetID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.follows[[2]uint{followerID, targetID}], nil
}
