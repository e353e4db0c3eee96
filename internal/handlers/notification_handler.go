package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/repositories"
)

// NotificationHandler serves the viewer's notification list
type NotificationHandler struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// RegisterNotificationRoutes registers notification routes on the given group
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

type notificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

// GetNotifications lists the viewer's notifications, most recently
// updated first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 50 {
		limit = 20
	}

	list, total, err := h.notificationRepo.GetByRecipientID(c.Request().Context(), userID, page, limit)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, notificationListResponse{
		Notifications: list,
		Total:         total,
		Page:          page,
		Limit:         limit,
	})
}

// GetUnreadCount returns the viewer's unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := getUserIDFromContext(c)
	count, err := h.notificationRepo.GetUnreadCount(c.Request().Context(), userID)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}

// MarkAsRead marks one of the viewer's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification ID")
	}
	if err := h.notificationRepo.MarkAsRead(c.Request().Context(), uint(id), userID); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllAsRead marks all of the viewer's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if err := h.notificationRepo.MarkAllAsRead(c.Request().Context(), userID); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
