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

// PageHandler handles pages, page likes and page invitations
type PageHandler struct {
	pageRepo repositories.PageRepository
	userRepo repositories.UserRepository
	notifier *Notifier
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(pageRepo repositories.PageRepository, userRepo repositories.UserRepository, notifier *Notifier) *PageHandler {
	return &PageHandler{pageRepo: pageRepo, userRepo: userRepo, notifier: notifier}
}

// RegisterPageRoutes registers page routes on the given group
func (h *PageHandler) RegisterPageRoutes(g *echo.Group) {
	g.POST("/pages", h.CreatePage)
	g.GET("/pages/:slug", h.GetPage)
	g.POST("/pages/:id/like", h.LikePage)
	g.DELETE("/pages/:id/like", h.UnlikePage)
	g.POST("/pages/:id/invitations", h.InviteToPage)
	g.GET("/pages/:id/likers", h.GetLikers)
}

// CreatePage creates a new page
func (h *PageHandler) CreatePage(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreatePageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page := &models.Page{
		Name:      req.Name,
		SlugName:  req.SlugName,
		About:     req.About,
		CreatorID: userID,
	}
	if err := h.pageRepo.CreatePage(c.Request().Context(), page); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "slug name already taken")
	}
	return c.JSON(http.StatusCreated, page)
}

// GetPage retrieves a page by slug
func (h *PageHandler) GetPage(c echo.Context) error {
	page, err := h.pageRepo.GetPageBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// LikePage records the viewer's like on a page
func (h *PageHandler) LikePage(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page ID")
	}
	if _, err := h.pageRepo.GetPageByID(ctx, uint(pageID)); err != nil {
		return repoError(err)
	}

	like := &models.PageLike{UserID: userID, PageID: uint(pageID)}
	if err := h.pageRepo.CreatePageLike(ctx, like); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "page already liked")
	}
	return c.JSON(http.StatusCreated, like)
}

// UnlikePage removes the viewer's like from a page
func (h *PageHandler) UnlikePage(c echo.Context) error {
	userID := getUserIDFromContext(c)

	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page ID")
	}
	if err := h.pageRepo.DeletePageLike(c.Request().Context(), userID, uint(pageID)); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// InviteToPage invites another user to like the page
func (h *PageHandler) InviteToPage(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page ID")
	}

	var req models.PageInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == userID {
		return repoError(errs.SelfInteraction)
	}

	page, err := h.pageRepo.GetPageByID(ctx, uint(pageID))
	if err != nil {
		return repoError(err)
	}
	if _, err := h.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		return repoError(err)
	}

	invitation := &models.PageInvitation{
		PageID:     page.ID,
		SenderID:   userID,
		ReceiverID: req.UserID,
	}
	if err := h.pageRepo.CreatePageInvitation(ctx, invitation); err != nil {
		return repoError(err)
	}

	h.notifier.emit(ctx, userID, req.UserID, notify.TypePageInvitation, strconv.FormatUint(uint64(invitation.ID), 10), page.SlugName)

	return c.JSON(http.StatusCreated, invitation)
}

// GetLikers lists users who like the page
func (h *PageHandler) GetLikers(c echo.Context) error {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page ID")
	}
	likers, err := h.pageRepo.GetPageLikers(c.Request().Context(), uint(pageID))
	if err != nil {
		return repoError(err)
	}
	compact := make([]models.UserCompact, 0, len(likers))
	for i := range likers {
		compact = append(compact, likers[i].ToCompact())
	}
	return c.JSON(http.StatusOK, compact)
}
