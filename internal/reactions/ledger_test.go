package reactions

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

// memStore is an in-memory reaction store keyed like the database's
// composite unique index.
type memStore struct {
	mu   sync.Mutex
	rows map[string]*models.Reaction
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]*models.Reaction)}
}

func key(actorID uint, targetID, targetType string) string {
	return fmt.Sprintf("%d|%s|%s", actorID, targetType, targetID)
}

func (s *memStore) GetReaction(_ context.Context, actorID uint, targetID, targetType string) (*models.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[key(actorID, targetID, targetType)]
	if !ok {
		return nil, errs.NotFound
	}
	copied := *r
	return &copied, nil
}

func (s *memStore) CreateReaction(_ context.Context, reaction *models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key(reaction.ActorID, reaction.TargetID, reaction.TargetType)] = reaction
	return nil
}

func (s *memStore) DeleteReaction(_ context.Context, actorID uint, targetID, targetType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key(actorID, targetID, targetType))
	return nil
}

var postTarget = Target{Type: models.TargetPost, ID: "abc123"}

func TestToggleCreateThenRemove(t *testing.T) {
	ledger := NewLedger(newMemStore())
	ctx := context.Background()

	var counter int64

	first, err := ledger.Toggle(ctx, 1, postTarget, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, Created, first.Result)
	assert.Equal(t, +1, first.Delta)
	counter += int64(first.Delta)

	second, err := ledger.Toggle(ctx, 1, postTarget, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, Removed, second.Result)
	assert.Equal(t, -1, second.Delta)
	counter += int64(second.Delta)

	assert.Equal(t, int64(0), counter, "toggle on/off must net to zero")
}

// A repeat with a different kind still removes: the contract is
// toggle-delete, not kind replacement.
func TestRepeatWithDifferentKindRemoves(t *testing.T) {
	ledger := NewLedger(newMemStore())
	ctx := context.Background()

	_, err := ledger.Toggle(ctx, 1, postTarget, models.ReactionLike)
	require.NoError(t, err)

	res, err := ledger.Toggle(ctx, 1, postTarget, models.ReactionAngry)
	require.NoError(t, err)
	assert.Equal(t, Removed, res.Result)
	assert.Equal(t, models.ReactionLike, res.Kind, "removal reports the stored kind")
}

func TestDistinctActorsIndependent(t *testing.T) {
	ledger := NewLedger(newMemStore())
	ctx := context.Background()

	for actor := uint(1); actor <= 3; actor++ {
		res, err := ledger.Toggle(ctx, actor, postTarget, models.ReactionLove)
		require.NoError(t, err)
		assert.Equal(t, Created, res.Result)
	}
}

// N distinct actors toggling concurrently on the same target must each
// net +1 with no lost counter updates.
func TestConcurrentDistinctActors(t *testing.T) {
	ledger := NewLedger(newMemStore())
	ctx := context.Background()

	const n = 64
	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(actor uint) {
			defer wg.Done()
			res, err := ledger.Toggle(ctx, actor, postTarget, models.ReactionHaha)
			if err != nil {
				t.Errorf("toggle failed for actor %d: %v", actor, err)
				return
			}
			atomic.AddInt64(&counter, int64(res.Delta))
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int64(n), counter)
}

// Concurrent toggles by the same actor must serialize: whatever the
// interleaving, the row either exists exactly once or not at all, and
// the summed deltas match the final state.
func TestConcurrentSameActorSerializes(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	const rounds = 50
	var delta int64
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := ledger.Toggle(ctx, 7, postTarget, models.ReactionSad)
			if err != nil {
				t.Errorf("toggle failed: %v", err)
				return
			}
			atomic.AddInt64(&delta, int64(res.Delta))
		}()
	}
	wg.Wait()

	_, err := store.GetReaction(ctx, 7, postTarget.ID, postTarget.Type)
	exists := err == nil
	if exists {
		assert.Equal(t, int64(1), delta)
	} else {
		assert.Equal(t, int64(0), delta)
	}
}
