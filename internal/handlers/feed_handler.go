package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/repositories"
	"github.com/openbook-app/backend/internal/visibility"
)

// FeedHandler serves the recent-posts feed. Every candidate post is
// filtered through the visibility evaluator for the requesting viewer.
type FeedHandler struct {
	postRepo  repositories.PostRepository
	groupRepo repositories.GroupRepository
	evaluator *visibility.Evaluator
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, groupRepo repositories.GroupRepository, evaluator *visibility.Evaluator) *FeedHandler {
	return &FeedHandler{postRepo: postRepo, groupRepo: groupRepo, evaluator: evaluator}
}

// RegisterFeedRoutes registers feed routes on the given group
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the most recent posts the viewer is allowed to see
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()
	skip, limit := pagination(c)

	posts, err := h.postRepo.GetRecentPosts(ctx, skip, limit)
	if err != nil {
		return repoError(err)
	}

	visible := make([]models.Post, 0, len(posts))
	for i := range posts {
		content, err := contentForPost(ctx, h.groupRepo, &posts[i])
		if err != nil {
			return repoError(err)
		}
		allowed, err := h.evaluator.CanView(ctx, content, userID)
		if err != nil {
			return repoError(err)
		}
		if allowed {
			visible = append(visible, posts[i])
		}
	}
	return c.JSON(http.StatusOK, visible)
}
