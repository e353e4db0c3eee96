package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/reactions"
)

// An actor must be able to react, un-react and react again indefinitely.
// The unique (actor, target) index covers removed rows unless the delete
// is unscoped, so the cycle exercises the real table.
func TestToggleCycleRepeats(t *testing.T) {
	db := testDB(t, &models.Reaction{})
	repo := NewPostgresReactionRepository(db)
	ledger := reactions.NewLedger(repo)
	ctx := context.Background()

	target := reactions.Target{Type: models.TargetPost, ID: "64f0c2a1"}

	first, err := ledger.Toggle(ctx, 2, target, models.ReactionLove)
	require.NoError(t, err)
	assert.Equal(t, reactions.Created, first.Result)

	second, err := ledger.Toggle(ctx, 2, target, models.ReactionLove)
	require.NoError(t, err)
	assert.Equal(t, reactions.Removed, second.Result)

	third, err := ledger.Toggle(ctx, 2, target, models.ReactionHaha)
	require.NoError(t, err)
	assert.Equal(t, reactions.Created, third.Result)
	assert.Equal(t, models.ReactionHaha, third.Kind)

	rows, err := repo.GetReactionsByTarget(ctx, target.ID, models.TargetPost)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ReactionHaha, rows[0].Kind)
}

func TestDistinctReactorsExcludesOwner(t *testing.T) {
	db := testDB(t, &models.Reaction{})
	repo := NewPostgresReactionRepository(db)
	ctx := context.Background()

	for _, actor := range []uint{1, 2, 3} {
		require.NoError(t, repo.CreateReaction(ctx, &models.Reaction{
			ActorID:    actor,
			TargetID:   "64f0c2a1",
			TargetType: models.TargetPost,
			Kind:       models.ReactionLike,
		}))
	}

	count, err := repo.CountDistinctReactors(ctx, "64f0c2a1", models.TargetPost, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
