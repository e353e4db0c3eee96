package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/notify"
	"github.com/openbook-app/backend/internal/repositories"
	"github.com/openbook-app/backend/internal/visibility"
)

// CommentHandler handles comment requests. Commenting requires the same
// visibility as reading the parent post; a comment's audience is always
// the parent post's audience.
type CommentHandler struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	groupRepo   repositories.GroupRepository
	evaluator   *visibility.Evaluator
	notifier    *Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	evaluator *visibility.Evaluator,
	notifier *Notifier,
) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		evaluator:   evaluator,
		notifier:    notifier,
	}
}

// RegisterCommentRoutes registers comment routes on the given group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// gatePost loads a post and checks the viewer may see it.
func (h *CommentHandler) gatePost(c echo.Context, postID string, viewerID uint) (*models.Post, error) {
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

// CreateComment adds a comment to a post the viewer can see
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.gatePost(c, c.Param("id"), userID)
	if err != nil {
		return err
	}

	comment := &models.Comment{
		PostID: post.ID.Hex(),
		UserID: userID,
		Text:   req.Text,
	}
	if err := h.commentRepo.CreateComment(ctx, comment); err != nil {
		return repoError(err)
	}
	if err := h.postRepo.ApplyCommentsDelta(ctx, comment.PostID, 1); err != nil {
		return repoError(err)
	}

	h.notifier.emit(ctx, userID, post.OwnerID, notify.TypeCommentPost, comment.PostID, post.About)

	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists a post's comments if the viewer can see the post
func (h *CommentHandler) GetComments(c echo.Context) error {
	userID := getUserIDFromContext(c)

	post, err := h.gatePost(c, c.Param("id"), userID)
	if err != nil {
		return err
	}
	comments, err := h.commentRepo.GetCommentsByPostID(c.Request().Context(), post.ID.Hex())
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// UpdateComment edits a comment. Only the author may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepo.GetCommentByID(ctx, uint(id))
	if err != nil {
		return repoError(err)
	}
	if comment.UserID != userID {
		return repoError(errs.PermissionDenied)
	}
	comment.Text = req.Text
	if err := h.commentRepo.UpdateComment(ctx, comment); err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. The author or the parent post's owner
// may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
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
	if comment.UserID != userID {
		post, err := h.postRepo.GetPostByID(ctx, comment.PostID)
		if err != nil {
			return repoError(err)
		}
		if post.OwnerID != userID {
			return repoError(errs.PermissionDenied)
		}
	}

	if err := h.commentRepo.DeleteComment(ctx, comment.ID); err != nil {
		return repoError(err)
	}
	if err := h.postRepo.ApplyCommentsDelta(ctx, comment.PostID, -1); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
