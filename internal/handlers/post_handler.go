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

// PostHandler handles post CRUD requests. Every read of someone else's
// post goes through the visibility evaluator.
type PostHandler struct {
	postRepo  repositories.PostRepository
	groupRepo repositories.GroupRepository
	pageRepo  repositories.PageRepository
	evaluator *visibility.Evaluator
	graph     visibility.Graph
	notifier  *Notifier
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	pageRepo repositories.PageRepository,
	evaluator *visibility.Evaluator,
	graph visibility.Graph,
	notifier *Notifier,
) *PostHandler {
	return &PostHandler{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		pageRepo:  pageRepo,
		evaluator: evaluator,
		graph:     graph,
		notifier:  notifier,
	}
}

// RegisterPostRoutes registers post routes on the given group
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Privacy == "" {
		req.Privacy = string(visibility.Public)
	}
	if req.Destination == "" {
		req.Destination = string(visibility.DestBiography)
	}
	if err := visibility.ValidateConfig(visibility.PrivacyMode(req.Privacy), req.SpecificFriends, req.ExcludedFriends); err != nil {
		return repoError(err)
	}

	switch visibility.DestinationKind(req.Destination) {
	case visibility.DestGroup:
		active, err := h.groupRepo.IsActiveMember(ctx, userID, req.DestinationID)
		if err != nil {
			return repoError(err)
		}
		if !active {
			return repoError(errs.NotGroupMember)
		}
	case visibility.DestFriendWall:
		if req.DestinationID == userID {
			return echo.NewHTTPError(http.StatusBadRequest, "use BIOGRAPHY to post on your own wall")
		}
		friends, err := h.graph.AreFriends(ctx, userID, req.DestinationID)
		if err != nil {
			return repoError(err)
		}
		if !friends {
			return repoError(errs.PermissionDenied)
		}
	case visibility.DestPage:
		if _, err := h.pageRepo.GetPageByID(ctx, req.DestinationID); err != nil {
			return repoError(err)
		}
	}

	post := &models.Post{
		OwnerID:         userID,
		About:           req.About,
		Privacy:         req.Privacy,
		SpecificFriends: req.SpecificFriends,
		ExcludedFriends: req.ExcludedFriends,
		Destination:     req.Destination,
		DestinationID:   req.DestinationID,
		Feeling:         req.Feeling,
		Location:        req.Location,
	}
	if err := h.postRepo.CreatePost(ctx, post); err != nil {
		return repoError(err)
	}

	if visibility.DestinationKind(post.Destination) == visibility.DestFriendWall {
		h.notifier.emit(ctx, userID, post.DestinationID, notify.TypePost, post.ID.Hex(), post.About)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post if the viewer is allowed to see it
func (h *PostHandler) GetPost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	post, err := h.postRepo.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(err)
	}

	content, err := contentForPost(ctx, h.groupRepo, post)
	if err != nil {
		return repoError(err)
	}
	allowed, err := h.evaluator.CanView(ctx, content, userID)
	if err != nil {
		return repoError(err)
	}
	if !allowed {
		return repoError(errs.PermissionDenied)
	}
	return c.JSON(http.StatusOK, post)
}

// GetUserPosts lists a user's posts, filtered through the visibility
// evaluator for the requesting viewer
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	ownerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	skip, limit := pagination(c)

	posts, err := h.postRepo.GetPostsByOwnerID(ctx, uint(ownerID), skip, limit)
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

// UpdatePost updates a post. Only the owner may update, and privacy
// changes are re-validated.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepo.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(err)
	}
	if post.OwnerID != userID {
		return repoError(errs.PermissionDenied)
	}

	if req.About != "" {
		post.About = req.About
	}
	if req.Privacy != "" {
		post.Privacy = req.Privacy
		post.SpecificFriends = req.SpecificFriends
		post.ExcludedFriends = req.ExcludedFriends
	}
	if err := visibility.ValidateConfig(visibility.PrivacyMode(post.Privacy), post.SpecificFriends, post.ExcludedFriends); err != nil {
		return repoError(err)
	}

	if err := h.postRepo.UpdatePost(ctx, post.ID.Hex(), post); err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post. Only the owner may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	post, err := h.postRepo.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(err)
	}
	if post.OwnerID != userID {
		return repoError(errs.PermissionDenied)
	}
	if err := h.postRepo.DeletePost(ctx, post.ID.Hex()); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// pagination reads skip/limit query params with sane defaults.
func pagination(c echo.Context) (int64, int64) {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit <= 0 || limit > 50 {
		limit = 20
	}
	return skip, limit
}
