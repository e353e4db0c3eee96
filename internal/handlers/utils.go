package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
	"github.com/openbook-app/backend/internal/repositories"
	"github.com/openbook-app/backend/internal/visibility"
)

// getUserIDFromContext returns the authenticated user's ID set by the
// JWT middleware, or 0 when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	if id, ok := c.Get("userID").(uint); ok {
		return id
	}
	return 0
}

// repoError converts repository/core errors into echo HTTP errors.
func repoError(err error) error {
	var me interface{ Public() string }
	switch {
	case errors.Is(err, errs.NotFound):
		return echo.NewHTTPError(http.StatusNotFound, errs.NotFound.Public())
	case errors.Is(err, errs.PermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, errs.PermissionDenied.Public())
	case errors.Is(err, errs.FriendRequestExists),
		errors.Is(err, errs.AlreadyFriends),
		errors.Is(err, errs.MembershipExists):
		if errors.As(err, &me) {
			return echo.NewHTTPError(http.StatusConflict, me.Public())
		}
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.PrivacyListMissing),
		errors.Is(err, errs.PrivacyListForbidden),
		errors.Is(err, errs.PrivacyModeInvalid),
		errors.Is(err, errs.NotGroupMember),
		errors.Is(err, errs.SelfInteraction):
		if errors.As(err, &me) {
			return echo.NewHTTPError(http.StatusBadRequest, me.Public())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// contentForPost builds the visibility descriptor for a post. For posts
// destined to a group it resolves whether the group is private, since
// the group gate precedes the privacy mode.
func contentForPost(ctx context.Context, groupRepo repositories.GroupRepository, post *models.Post) (visibility.Content, error) {
	content := visibility.Content{
		OwnerID:         post.OwnerID,
		Privacy:         visibility.PrivacyMode(post.Privacy),
		SpecificFriends: post.SpecificFriends,
		ExcludedFriends: post.ExcludedFriends,
		Destination:     visibility.DestinationKind(post.Destination),
		DestinationID:   post.DestinationID,
	}

	if content.Destination == visibility.DestGroup {
		group, err := groupRepo.GetGroupByID(ctx, post.DestinationID)
		if err != nil {
			return visibility.Content{}, err
		}
		content.PrivateGroup = !group.IsPublic
	}
	return content, nil
}
