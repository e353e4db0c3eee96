package errs

import "strings"

const (
	// NotFound is returned when a referenced resource does not exist.
	NotFound modelError = "models: resource not found"
	// PermissionDenied is returned when the content's visibility policy
	// denies the acting user.
	PermissionDenied modelError = "models: you are not allowed to see this content"
	// SelfInteraction is returned when a user attempts an interaction
	// that targets themselves (friend request, invitation).
	SelfInteraction modelError = "models: the acting and receiving user are the same"

	// PrivacyListMissing is returned when FRIENDS_EXCEPT or SPECIFIC_FRIENDS
	// is declared without the matching friend list.
	PrivacyListMissing modelError = "models: privacy mode requires a non-empty friend list"
	// PrivacyListForbidden is returned when a friend list is supplied for
	// a privacy mode that does not use it.
	PrivacyListForbidden modelError = "models: friend list supplied for a privacy mode that does not use it"
	// PrivacyModeInvalid is returned when the privacy mode is not one of
	// the known values.
	PrivacyModeInvalid modelError = "models: unknown privacy mode"

	// NotGroupMember is returned when a user posts to a group they are
	// not an active member of.
	NotGroupMember modelError = "models: you do not belong to this group"
	// MembershipExists is returned when a membership already exists for
	// the (user, group) pair.
	MembershipExists modelError = "models: membership already exists"

	// FriendRequestExists is returned when a pending request already
	// exists between two users, in either direction.
	FriendRequestExists modelError = "models: a pending friend request already exists"
	// AlreadyFriends is returned when the pair already has an accepted
	// friend request.
	AlreadyFriends modelError = "models: users are already friends"
)

type modelError string

func (e modelError) Error() string {
	return string(e)
}

// Public strips the internal prefix so the message can be returned to
// API clients as-is.
func (e modelError) Public() string {
	s := strings.Replace(string(e), "models: ", "", 1)
	split := strings.Split(s, " ")
	split[0] = strings.Title(split[0])
	return strings.Join(split, " ")
}
