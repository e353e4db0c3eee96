package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// memNotificationStore keeps notification rows keyed the way the
// database's composite unique index does.
type memNotificationStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]*models.Notification
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{rows: make(map[string]*models.Notification)}
}

func notifKey(recipientID uint, t Type, objectID string) string {
	return fmt.Sprintf("%d|%s|%s", recipientID, t, objectID)
}

func (s *memNotificationStore) GetByKey(_ context.Context, recipientID uint, t Type, objectID string) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.rows[notifKey(recipientID, t, objectID)]
	if !ok {
		return nil, errs.NotFound
	}
	copied := *n
	return &copied, nil
}

func (s *memNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	copied := *n
	s.rows[notifKey(n.RecipientID, Type(n.Type), n.ObjectID)] = &copied
	return nil
}

func (s *memNotificationStore) Update(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *n
	s.rows[notifKey(n.RecipientID, Type(n.Type), n.ObjectID)] = &copied
	return nil
}

func (s *memNotificationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// memCounter tracks distinct actors per (type, object) the way the
// reaction and comment tables would.
type memCounter struct {
	mu     sync.Mutex
	actors map[string]map[uint]bool
}

func newMemCounter() *memCounter {
	return &memCounter{actors: make(map[string]map[uint]bool)}
}

func (c *memCounter) add(t Type, objectID string, actorID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := string(t) + "|" + objectID
	if c.actors[k] == nil {
		c.actors[k] = make(map[uint]bool)
	}
	c.actors[k][actorID] = true
}

func (c *memCounter) DistinctActors(_ context.Context, t Type, objectID string, excludeUserID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for actor := range c.actors[string(t)+"|"+objectID] {
		if actor != excludeUserID {
			n++
		}
	}
	return n, nil
}

const postOwner = uint(100)

func record(t *testing.T, agg *Aggregator, counter *memCounter, actorID uint, name string, typ Type, objectID, object string) *models.Notification {
	t.Helper()
	counter.add(typ, objectID, actorID)
	n, err := agg.Record(context.Background(), Event{
		ActorID:    actorID,
		ActorName:  name,
		ReceiverID: postOwner,
		Type:       typ,
		ObjectID:   objectID,
		Object:     object,
	})
	require.NoError(t, err)
	return n
}

func TestFirstInteractionCreatesDirectMessage(t *testing.T) {
	store := newMemNotificationStore()
	counter := newMemCounter()
	agg := NewAggregator(store, counter)

	n := record(t, agg, counter, 1, "ana", TypeReactionPost, "p1", "hello world")

	require.NotNil(t, n)
	assert.Equal(t, "ana reacted to your post hello world.", n.Message)
	assert.Equal(t, 1, n.DistinctActorCount)
	assert.Equal(t, uint(1), n.ActorID)
}

func TestSecondActorRendersPair(t *testing.T) {
	store := newMemNotificationStore()
	counter := newMemCounter()
	agg := NewAggregator(store, counter)

	record(t, agg, counter, 1, "ana", TypeCommentPost, "p1", "")
	n := record(t, agg, counter, 2, "bob", TypeCommentPost, "p1", "")

	assert.Equal(t, "bob and ana commented on your post.", n.Message)
	assert.Equal(t, 2, n.DistinctActorCount)
	assert.Equal(t, 1, store.count(), "events must merge into one row")
}

func TestThirdActorRendersCrowd(t *testing.T) {
	store := newMemNotificationStore()
	counter := newMemCounter()
	agg := NewAggregator(store, counter)

	record(t, agg, counter, 1, "ana", TypeCommentPost, "p1", "")
	record(t, agg, counter, 2, "bob", TypeCommentPost, "p1", "")
	n := record(t, agg, counter, 3, "cleo", TypeCommentPost, "p1", "")

	assert.Contains(t, n.Message, "and 2 other people")
	assert.Equal(t, "cleo and 2 other people commented on your post.", n.Message)
	assert.Equal(t, 3, n.DistinctActorCount)
}

// A repeat interaction by the current last actor changes neither the
// message nor the count.
func TestRepeatByLastActorIsIdempotent(t *testing.T) {
	store := newMemNotificationStore()
	counter := newMemCounter()
	agg := NewAggregator(store, counter)

	record(t, agg, counter, 1, "ana", TypeCommentPost, "p1", "")
	record(t, agg, counter, 2, "bob", TypeCommentPost, "p1", "")
	record(t, agg, counter, 3, "cleo", TypeCommentPost, "p1", "")
	n := record(t, agg, counter, 3, "cleo", TypeCommentPost, "p1", "")

	assert.Equal(t, 3, n.DistinctActorCount)
	assert.Equal(t, "cleo and 2 other people commented on your post.", n.Message)
}

// A repeat by an earlier (non-last) actor re-renders but the distinct
// count stays at the number of distinct actors.
func TestRepeatByEarlierActorKeepsCount(t *testing.T) {
	store := newMemNotificationStore()
	counter := newMemCounter()
	agg := NewAggregator(store, counter)

	record(t, agg, counter, 1, "ana", TypeCommentPost, "p1", "")
	record(t, agg, counter, 2, "bob", TypeCommentPost, "p1", "")
	record(t, agg, counter, 3, "cleo", TypeCommentPost, "p1", "")
	n := record(t, agg, counter, 1, "ana", TypeCommentPost, "p1", "")

	assert.Equal(t, 3, n.DistinctActorCount)
	assert.Equal(t, uint(1), n.ActorID, "last actor moves to the repeating actor")
}

func TestSelfInteractionSuppressed(t *testing.T) {
	store := newMemNotificationStore()
	counter := newMemCounter()
	agg := NewAggregator(store, counter)

	n, err := agg.Record(context.Background(), Event{
		ActorID:    postOwner,
		ActorName:  "self",
		ReceiverID: postOwner,
		Type:       TypeReactionPost,
		ObjectID:   "p1",
		Object:     "hello",
	})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Equal(t, 0, store.count())
}

func TestNonAggregatingTypesInsertPerEvent(t *testing.T) {
	store := newMemNotificationStore()
	agg := NewAggregator(store, newMemCounter())

	for i, typ := range []Type{TypeFriendRequest, TypeGroupInvitation, TypePageInvitation, TypePost} {
		n, err := agg.Record(context.Background(), Event{
			ActorID:    uint(i + 1),
			ActorName:  "ana",
			ReceiverID: postOwner,
			Type:       typ,
			ObjectID:   fmt.Sprintf("obj-%d", i),
			Object:     "climbing",
		})
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.True(t, strings.HasPrefix(n.Message, "ana "), "message %q", n.Message)
	}
	assert.Equal(t, 4, store.count())
}

func TestMessageTemplates(t *testing.T) {
	cases := []struct {
		typ    Type
		object string
		want   string
	}{
		{TypeReactionPost, "sunset", "ana reacted to your post sunset."},
		{TypeCommentPost, "", "ana commented on your post."},
		{TypeReactionComment, "nice one", `ana reacted to your comment "nice one".`},
		{TypePost, "hi!", "ana posted on your biography hi!."},
		{TypeFriendRequest, "", "ana sent you a friend request."},
		{TypeFriendAccept, "", "ana accepted your friend request."},
		{TypeGroupInvitation, "climbers", "ana sent you an invitation to join the climbers group."},
		{TypePageInvitation, "espresso-bar", "ana sent you an invitation to like the espresso-bar page."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, directMessage(tc.typ, "ana", tc.object), "type %s", tc.typ)
	}
}

// Concurrent distinct actors on the same key must not lose updates: the
// final row reflects every actor exactly once.
func TestConcurrentActorsSameKey(t *testing.T) {
	store := newMemNotificationStore()
	counter := newMemCounter()
	agg := NewAggregator(store, counter)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(actor uint) {
			defer wg.Done()
			counter.add(TypeCommentPost, "p1", actor)
			_, err := agg.Record(context.Background(), Event{
				ActorID:    actor,
				ActorName:  fmt.Sprintf("user%d", actor),
				ReceiverID: postOwner,
				Type:       TypeCommentPost,
				ObjectID:   "p1",
			})
			if err != nil {
				t.Errorf("record failed: %v", err)
			}
		}(uint(i + 1))
	}
	wg.Wait()

	final, err := store.GetByKey(context.Background(), postOwner, TypeCommentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.count())
	// Every actor is distinct, so the final count must be n regardless
	// of arrival order (the last writer recomputed from the full set).
	assert.Equal(t, n, final.DistinctActorCount)
}
