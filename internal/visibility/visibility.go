// Package visibility decides whether a viewer is allowed to see a piece
// of content. The evaluator is a pure function over a content descriptor
// and an injected relationship graph; it performs no storage access of
// its own.
package visibility

import (
	"context"

	"github.com/openbook-app/backend/internal/errs"
)

// PrivacyMode is the audience policy attached to a piece of content.
type PrivacyMode string

const (
	Public          PrivacyMode = "PUBLIC"
	Friends         PrivacyMode = "FRIENDS"
	FriendsExcept   PrivacyMode = "FRIENDS_EXCEPT"
	SpecificFriends PrivacyMode = "SPECIFIC_FRIENDS"
)

// DestinationKind is the wall a post is published to. The destination
// carries its own access gate (group membership), applied before the
// privacy mode is even considered.
type DestinationKind string

const (
	DestBiography  DestinationKind = "BIOGRAPHY"
	DestFriendWall DestinationKind = "FRIEND_WALL"
	DestGroup      DestinationKind = "GROUP"
	DestPage       DestinationKind = "PAGE"
)

// Content is the descriptor the evaluator works on. Handlers build it
// from the stored post; a comment inherits the descriptor of its parent
// post.
type Content struct {
	OwnerID         uint
	Privacy         PrivacyMode
	SpecificFriends []uint
	ExcludedFriends []uint
	Destination     DestinationKind
	DestinationID   uint
	// PrivateGroup is meaningful only when Destination is DestGroup and
	// is supplied by the content provider alongside the group id.
	PrivateGroup bool
}

// Graph answers the adjacency queries the evaluator needs. Edge creation
// (friend request flow, membership confirmation) lives elsewhere.
type Graph interface {
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	IsActiveMember(ctx context.Context, userID, groupID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error)
}

// Evaluator evaluates content visibility against a relationship graph.
type Evaluator struct {
	graph Graph
}

// NewEvaluator returns an Evaluator backed by the given graph.
func NewEvaluator(graph Graph) *Evaluator {
	return &Evaluator{graph: graph}
}

// CanView reports whether viewer may see the content. Rules are checked
// in order, first match wins:
//
//  1. the owner always sees their own content
//  2. content in a private group is hidden from non-active-members,
//     regardless of privacy mode
//  3. PUBLIC allows everyone
//  4. FRIENDS allows friends of the owner
//  5. SPECIFIC_FRIENDS allows only the listed users
//  6. FRIENDS_EXCEPT allows friends not on the excluded list
func (e *Evaluator) CanView(ctx context.Context, content Content, viewerID uint) (bool, error) {
	if viewerID == content.OwnerID {
		return true, nil
	}

	if content.Destination == DestGroup && content.PrivateGroup {
		member, err := e.graph.IsActiveMember(ctx, viewerID, content.DestinationID)
		if err != nil {
			return false, err
		}
		if !member {
			return false, nil
		}
	}

	switch content.Privacy {
	case Public:
		return true, nil
	case Friends:
		return e.graph.AreFriends(ctx, viewerID, content.OwnerID)
	case SpecificFriends:
		return containsUser(content.SpecificFriends, viewerID), nil
	case FriendsExcept:
		// Exclusion wins over friendship: a listed friend is denied, and
		// a non-friend is denied by the friendship conjunct either way.
		friends, err := e.graph.AreFriends(ctx, viewerID, content.OwnerID)
		if err != nil {
			return false, err
		}
		return friends && !containsUser(content.ExcludedFriends, viewerID), nil
	}
	return false, nil
}

// ValidateConfig rejects inconsistent privacy configuration at write time:
// a list-based mode without its list, or a list supplied for a mode that
// does not use it. Evaluation never sees an inconsistent descriptor.
func ValidateConfig(mode PrivacyMode, specificFriends, excludedFriends []uint) error {
	switch mode {
	case Public, Friends:
		if len(specificFriends) > 0 || len(excludedFriends) > 0 {
			return errs.PrivacyListForbidden
		}
	case SpecificFriends:
		if len(specificFriends) == 0 {
			return errs.PrivacyListMissing
		}
		if len(excludedFriends) > 0 {
			return errs.PrivacyListForbidden
		}
	case FriendsExcept:
		if len(excludedFriends) == 0 {
			return errs.PrivacyListMissing
		}
		if len(specificFriends) > 0 {
			return errs.PrivacyListForbidden
		}
	default:
		return errs.PrivacyModeInvalid
	}
	return nil
}

func containsUser(users []uint, id uint) bool {
	for _, u := range users {
		if u == id {
			return true
		}
	}
	return false
}
