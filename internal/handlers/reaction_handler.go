package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/notify"
	"github.com/openbook-app/backend/internal/reactions"
	"github.com/openbook-app/backend/internal/repositories"
	"github.com/openbook-app/backend/internal/visibility"
)

// ReactionHandler handles reaction toggles on posts and comments. A
// repeat reaction by the same actor removes the existing one; the kind
// sent on a repeat is ignored.
type ReactionHandler struct {
	ledger       *reactions.Ledger
	reactionRepo repositories.ReactionRepository
	postRepo     repositories.PostRepository
	commentRepo  repositories.CommentRepository
	groupRepo    repositories.GroupRepository
	evaluator    *visibility.Evaluator
	notifier     *Notifier
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(
	ledger *reactions.Ledger,
	reactionRepo repositories.ReactionRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	groupRepo repositories.GroupRepository,
	evaluator *visibility.Evaluator,
	notifier *Notifier,
) *ReactionHandler {
	return &ReactionHandler{
		ledger:       ledger,
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		groupRepo:    groupRepo,
		evaluator:    evaluator,
		notifier:     notifier,
	}
}

// RegisterReactionRoutes registers reaction routes on the given group
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:id/reactions", h.TogglePostReaction)
	g.GET("/posts/:id/reactions", h.GetPostReactions)
	g.POST("/comments/:id/reactions", h.ToggleCommentReaction)
	g.GET("/comments/:id/reactions", h.GetCommentReactions)
}

// toggleResponse is the body returned by the toggle endpoints.
type toggleResponse struct {
	Result string `json:"result"`
	Kind   string `json:"kind"`
}

func (h *ReactionHandler) bindKind(c echo.Context) (string, error) {
	var req models.CreateReactionRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req.Kind, nil
}

func (h *ReactionHandler) gatePost(c echo.Context, postID string, viewerID uint) (*models.Post, error) {
	ctx := c.Request().Context()
	post, err := h.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, repoError(err)
	}
	content, err := contentForPost(ctx, h.groupRepo, post)
	if err != nil {
		return nil, repoError(err)
	}
	allowed, err := h.evaluator.CanView(ctx, content, viewerID)
	if err != nil {
		return nil, repoError(err)
	}
	if !allowed {
		return nil, repoError(errs.PermissionDenied)
	}
	return post, nil
}

// TogglePostReaction toggles the viewer's reaction on a post
func (h *ReactionHandler) TogglePostReaction(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	kind, err := h.bindKind(c)
	if err != nil {
		return err
	}
	post, err := h.gatePost(c, c.Param("id"), userID)
	if err != nil {
		return err
	}

	postID := post.ID.Hex()
	toggle, err := h.ledger.Toggle(ctx, userID, reactions.Target{Type: models.TargetPost, ID: postID}, kind)
	if err != nil {
		return repoError(err)
	}
	if err := h.postRepo.ApplyReactionsDelta(ctx, postID, toggle.Delta); err != nil {
		return repoError(err)
	}

	if toggle.Result == reactions.Created {
		h.notifier.emit(ctx, userID, post.OwnerID, notify.TypeReactionPost, postID, post.About)
	}

	return c.JSON(http.StatusOK, toggleResponse{Result: toggle.Result.String(), Kind: toggle.Kind})
}

// GetPostReactions lists reactions on a post the viewer can see
func (h *ReactionHandler) GetPostReactions(c echo.Context) error {
	userID := getUserIDFromContext(c)

	post, err := h.gatePost(c, c.Param("id"), userID)
	if err != nil {
		return err
	}
	list, err := h.reactionRepo.GetReactionsByTarget(c.Request().Context(), post.ID.Hex(), models.TargetPost)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// ToggleCommentReaction toggles the viewer's reaction on a comment. The
// comment inherits its parent post's audience.
func (h *ReactionHandler) ToggleCommentReaction(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	kind, err := h.bindKind(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}
	comment, err := h.commentRepo.GetCommentByID(ctx, uint(id))
	if err != nil {
		return repoError(err)
	}
	if _, err := h.gatePost(c, comment.PostID, userID); err != nil {
		return err
	}

	commentID := strconv.FormatUint(uint64(comment.ID), 10)
	toggle, err := h.ledger.Toggle(ctx, userID, reactions.Target{Type: models.TargetComment, ID: commentID}, kind)
	if err != nil {
		return repoError(err)
	}
	if err := h.commentRepo.ApplyReactionsDelta(ctx, commentID, toggle.Delta); err != nil {
		return repoError(err)
	}

	if toggle.Result == reactions.Created {
		h.notifier.emit(ctx, userID, comment.UserID, notify.TypeReactionComment, commentID, comment.Text)
	}

	return c.JSON(http.StatusOK, toggleResponse{Result: toggle.Result.String(), Kind: toggle.Kind})
}

// GetCommentReactions lists reactions on a comment
func (h *ReactionHandler) GetCommentReactions(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}
	comment, err := h.commentRepo.GetCommentByID(ctx, uint(id))
	if err != nil {
		return repoError(err)
	}
	if _, err := h.gatePost(c, comment.PostID, userID); err != nil {
		return err
	}

	commentID := strconv.FormatUint(uint64(comment.ID), 10)
	list, err := h.reactionRepo.GetReactionsByTarget(ctx, commentID, models.TargetComment)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, list)
}
