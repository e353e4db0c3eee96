package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/repositories"
)

// FollowHandler handles follow relationships. Follows are one-directional
// and independent of friendship.
type FollowHandler struct {
	followRepo repositories.FollowRepository
	userRepo   repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{followRepo: followRepo, userRepo: userRepo}
}

// RegisterFollowRoutes registers follow routes on the given group
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.Follow)
	g.DELETE("/users/:id/follow", h.Unfollow)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// Follow makes the viewer follow another user
func (h *FollowHandler) Follow(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	if uint(targetID) == userID {
		return repoError(errs.SelfInteraction)
	}
	if _, err := h.userRepo.GetUserByID(ctx, uint(targetID)); err != nil {
		return repoError(err)
	}

	follow := &models.Follow{FollowerID: userID, FollowingID: uint(targetID)}
	if err := h.followRepo.CreateFollow(ctx, follow); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "already following")
	}
	return c.JSON(http.StatusCreated, follow)
}

// Unfollow removes a follow relationship
func (h *FollowHandler) Unfollow(c echo.Context) error {
	userID := getUserIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	if err := h.followRepo.DeleteFollow(c.Request().Context(), userID, uint(targetID)); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFollowers lists users following the given user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	followers, err := h.followRepo.GetFollowers(c.Request().Context(), uint(id))
	if err != nil {
		return repoError(err)
	}
	compact := make([]models.UserCompact, 0, len(followers))
	for i := range followers {
		compact = append(compact, followers[i].ToCompact())
	}
	return c.JSON(http.StatusOK, compact)
}

// GetFollowing lists users the given user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	following, err := h.followRepo.GetFollowing(c.Request().Context(), uint(id))
	if err != nil {
		return repoError(err)
	}
	compact := make([]models.UserCompact, 0, len(following))
	for i := range following {
		compact = append(compact, following[i].ToCompact())
	}
	return c.JSON(http.StatusOK, compact)
}
