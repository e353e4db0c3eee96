package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/repositories"
)

// UserHandler handles user CRUD and search requests
type UserHandler struct {
	userRepo repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// RegisterUserRoutes registers user routes on the given group. User
// creation is registered separately, outside the authenticated group.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/username/:username", h.GetUserByUsername)
	g.PUT("/users/me", h.UpdateUser)
	g.DELETE("/users/me", h.DeleteUser)
	g.GET("/users/search", h.SearchUsers)
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		About:    req.About,
	}
	if err := h.userRepo.CreateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "username or email already taken")
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	user, err := h.userRepo.GetUserByID(c.Request().Context(), uint(id))
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserByUsername retrieves a user by username
func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	user, err := h.userRepo.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates the authenticated user's profile
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepo.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return repoError(err)
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.About != "" {
		user.About = req.About
	}
	if err := h.userRepo.UpdateUser(c.Request().Context(), user); err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser deletes the authenticated user's account
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if err := h.userRepo.DeleteUser(c.Request().Context(), userID); err != nil {
		return repoError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchUsers searches users by username or name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing search query")
	}
	users, err := h.userRepo.SearchUsers(c.Request().Context(), query)
	if err != nil {
		return repoError(err)
	}
	compact := make([]models.UserCompact, 0, len(users))
	for i := range users {
		compact = append(compact, users[i].ToCompact())
	}
	return c.JSON(http.StatusOK, compact)
}
