package repositories

import (
	"context"

	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/notify"
)

// InteractionCounter recomputes distinct-actor counts for the
// notification aggregator from the reaction and comment tables. It
// satisfies notify.ActorCounter.
type InteractionCounter struct {
	reactions ReactionRepository
	comments  CommentRepository
}

// NewInteractionCounter returns an InteractionCounter over the given
// repositories.
func NewInteractionCounter(reactions ReactionRepository, comments CommentRepository) *InteractionCounter {
	return &InteractionCounter{reactions: reactions, comments: comments}
}

// DistinctActors counts the distinct users who performed the given
// aggregating interaction on the object, excluding the recipient.
func (c *InteractionCounter) DistinctActors(ctx context.Context, t notify.Type, objectID string, excludeUserID uint) (int64, error) {
	switch t {
	case notify.TypeReactionPost:
		return c.reactions.CountDistinctReactors(ctx, objectID, models.TargetPost, excludeUserID)
	case notify.TypeReactionComment:
		return c.reactions.CountDistinctReactors(ctx, objectID, models.TargetComment, excludeUserID)
	case notify.TypeCommentPost:
		return c.comments.CountDistinctCommenters(ctx, objectID, excludeUserID)
	}
	return 0, nil
}
