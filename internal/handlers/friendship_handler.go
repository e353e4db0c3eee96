package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/graph"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/notify"
	"github.com/openbook-app/backend/internal/repositories"
)

// FriendshipHandler handles the friend request lifecycle. Accepting and
// unfriending invalidate the cached friendship edge so visibility checks
// see the change immediately.
type FriendshipHandler struct {
	friendshipRepo repositories.FriendshipRepository
	graphCache     *graph.Cached
	notifier       *Notifier
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, graphCache *graph.Cached, notifier *Notifier) *FriendshipHandler {
	return &FriendshipHandler{friendshipRepo: friendshipRepo, graphCache: graphCache, notifier: notifier}
}

// RegisterFriendshipRoutes registers friendship routes on the given group
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friend-requests", h.SendFriendRequest)
	g.GET("/friend-requests", h.GetPendingFriendRequests)
	g.PUT("/friend-requests/:id", h.RespondFriendRequest)
	g.GET("/users/:id/friends", h.GetFriends)
	g.DELETE("/friends/:id", h.Unfriend)
}

// SendFriendRequest sends a friend request to another user
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ReceiverID == userID {
		return repoError(errs.SelfInteraction)
	}

	fr := &models.FriendRequest{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Status:     models.FriendRequestPending,
	}
	if err := h.friendshipRepo.SendFriendRequest(ctx, fr); err != nil {
		return repoError(err)
	}

	h.notifier.emit(ctx, userID, fr.ReceiverID, notify.TypeFriendRequest, strconv.FormatUint(uint64(fr.ID), 10), "")

	return c.JSON(http.StatusCreated, fr)
}

// GetPendingFriendRequests lists friend requests awaiting the viewer's answer
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	userID := getUserIDFromContext(c)
	pending, err := h.friendshipRepo.GetUserPendingFriendRequests(c.Request().Context(), userID)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, pending)
}

// RespondFriendRequest accepts or rejects a friend request. Only the
// receiver may respond.
func (h *FriendshipHandler) RespondFriendRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request ID")
	}

	var req models.UpdateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fr, err := h.friendshipRepo.GetFriendRequestByID(ctx, uint(id))
	if err != nil {
		return repoError(err)
	}
	if fr.ReceiverID != userID {
		return repoError(errs.PermissionDenied)
	}
	if fr.Status != models.FriendRequestPending {
		return echo.NewHTTPError(http.StatusConflict, "friend request already answered")
	}

	if err := h.friendshipRepo.UpdateFriendRequestStatus(ctx, fr.ID, req.Status); err != nil {
		return repoError(err)
	}
	fr.Status = req.Status

	if req.Status == models.FriendRequestAccepted {
		h.graphCache.InvalidateFriendship(ctx, fr.SenderID, fr.ReceiverID)
		h.notifier.emit(ctx, userID, fr.SenderID, notify.TypeFriendAccept, strconv.FormatUint(uint64(fr.ID), 10), "")
	}

	return c.JSON(http.StatusOK, fr)
}

// GetFriends lists a user's friends
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	friends, err := h.friendshipRepo.GetUserFriends(c.Request().Context(), uint(id))
	if err != nil {
		return repoError(err)
	}
	compact := make([]models.UserCompact, 0, len(friends))
	for i := range friends {
		compact = append(compact, friends[i].ToCompact())
	}
	return c.JSON(http.StatusOK, compact)
}

// Unfriend removes an existing friendship
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	friendID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	if err := h.friendshipRepo.DeleteFriendship(ctx, userID, uint(friendID)); err != nil {
		return repoError(err)
	}
	h.graphCache.InvalidateFriendship(ctx, userID, uint(friendID))
	return c.NoContent(http.StatusNoContent)
}
