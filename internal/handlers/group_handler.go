package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/notify"
	"github.com/openbook-app/backend/internal/repositories"
)

// GroupHandler handles groups and memberships. Joining a public group is
// immediate; joining or being invited to a private group leaves the
// membership pending until an admin approves it.
type GroupHandler struct {
	groupRepo repositories.GroupRepository
	userRepo  repositories.UserRepository
	notifier  *Notifier
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, userRepo repositories.UserRepository, notifier *Notifier) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo, userRepo: userRepo, notifier: notifier}
}

// RegisterGroupRoutes registers group routes on the given group
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups/:slug", h.GetGroup)
	g.POST("/groups/:id/join", h.JoinGroup)
	g.POST("/groups/:id/invitations", h.InviteToGroup)
	g.PUT("/groups/:id/members/:userID/approve", h.ApproveMember)
	g.DELETE("/groups/:id/members/me", h.LeaveGroup)
	g.GET("/groups/:id/members", h.GetMembers)
}

// CreateGroup creates a group and makes the creator its first active admin
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	group := &models.Group{
		Name:      req.Name,
		SlugName:  req.SlugName,
		About:     req.About,
		IsPublic:  isPublic,
		CreatorID: userID,
	}
	if err := h.groupRepo.CreateGroup(ctx, group); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "slug name already taken")
	}

	membership := &models.Membership{
		UserID:   userID,
		GroupID:  group.ID,
		IsAdmin:  true,
		IsActive: true,
	}
	if err := h.groupRepo.CreateMembership(ctx, membership); err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusCreated, group)
}

// GetGroup retrieves a group by slug
func (h *GroupHandler) GetGroup(c echo.Context) error {
	group, err := h.groupRepo.GetGroupBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, group)
}

// JoinGroup requests membership in a group. Public groups activate the
// membership immediately.
func (h *GroupHandler) JoinGroup(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group ID")
	}
	group, err := h.groupRepo.GetGroupByID(ctx, uint(groupID))
	if err != nil {
		return repoError(err)
	}

	membership := &models.Membership{
		UserID:   userID,
		GroupID:  group.ID,
		IsActive: group.IsPublic,
	}
	if err := h.groupRepo.CreateMembership(ctx, membership); err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusCreated, membership)
}

// InviteToGroup invites another user into the group. The invitee's
// membership starts pending; an admin approves it later.
func (h *GroupHandler) InviteToGroup(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group ID")
	}

	var req models.GroupInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == userID {
		return repoError(errs.SelfInteraction)
	}

	group, err := h.groupRepo.GetGroupByID(ctx, uint(groupID))
	if err != nil {
		return repoError(err)
	}
	active, err := h.groupRepo.IsActiveMember(ctx, userID, group.ID)
	if err != nil {
		return repoError(err)
	}
	if !active {
		return repoError(errs.NotGroupMember)
	}
	if _, err := h.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		return repoError(err)
	}

	membership := &models.Membership{
		UserID:      req.UserID,
		GroupID:     group.ID,
		InvitedByID: &userID,
	}
	if err := h.groupRepo.CreateMembership(ctx, membership); err != nil {
		return repoError(err)
	}

	h.notifier.emit(ctx, userID, req.UserID, notify.TypeGroupInvitation, strconv.FormatUint(uint64(membership.ID), 10), group.SlugName)

	return c.JSON(http.StatusCreated, membership)
}

// ApproveMember activates a pending membership. Admins only.
func (h *GroupHandler) ApproveMember(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group ID")
	}
	memberID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	admin, err := h.groupRepo.IsGroupAdmin(ctx, userID, uint(groupID))
	if err != nil {
		return repoError(err)
	}
	if !admin {
		return repoError(errs.PermissionDenied)
	}
	if err := h.groupRepo.ActivateMembership(ctx, uint(memberID), uint(groupID)); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LeaveGroup removes the viewer's own membership
func (h *GroupHandler) LeaveGroup(c echo.Context) error {
	userID := getUserIDFromContext(c)

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group ID")
	}
	if err := h.groupRepo.DeleteMembership(c.Request().Context(), userID, uint(groupID)); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMembers lists a group's active members
func (h *GroupHandler) GetMembers(c echo.Context) error {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid group ID")
	}
	members, err := h.groupRepo.GetGroupMembers(c.Request().Context(), uint(groupID))
	if err != nil {
		return repoError(err)
	}
	compact := make([]models.UserCompact, 0, len(members))
	for i := range members {
		compact = append(compact, members[i].ToCompact())
	}
	return c.JSON(http.StatusOK, compact)
}
