package notify

import "fmt"

// Type is a notification kind. Aggregating kinds merge many independent
// actor events on the same object into one evolving row; the others fire
// one row per event.
type Type string

const (
	TypeReactionPost    Type = "reaction_post"
	TypeCommentPost     Type = "comment_post"
	TypeReactionComment Type = "reaction_comment"
	TypePost            Type = "post" // post on another user's wall
	TypeFriendRequest   Type = "friend_request"
	TypeFriendAccept    Type = "friend_accept"
	TypeGroupInvitation Type = "group_invitation"
	TypePageInvitation  Type = "page_invitation"
)

// Aggregates reports whether events of this type merge into a single
// notification row per (recipient, type, object).
func (t Type) Aggregates() bool {
	switch t {
	case TypeReactionPost, TypeCommentPost, TypeReactionComment:
		return true
	}
	return false
}

// phrase is the per-type message tail. The object text is the post's
// about, the comment's text, or the group/page slug name, supplied by
// the caller as render context.
func (t Type) phrase(object string) string {
	switch t {
	case TypeReactionPost:
		return fmt.Sprintf("reacted to your post %s.", object)
	case TypeCommentPost:
		return "commented on your post."
	case TypeReactionComment:
		return fmt.Sprintf("reacted to your comment %q.", object)
	case TypePost:
		return fmt.Sprintf("posted on your biography %s.", object)
	case TypeFriendRequest:
		return "sent you a friend request."
	case TypeFriendAccept:
		return "accepted your friend request."
	case TypeGroupInvitation:
		return fmt.Sprintf("sent you an invitation to join the %s group.", object)
	case TypePageInvitation:
		return fmt.Sprintf("sent you an invitation to like the %s page.", object)
	}
	return "interacted with your content."
}

// directMessage renders the single-actor form: "{actor} <phrase>".
func directMessage(t Type, actorName, object string) string {
	return fmt.Sprintf("%s %s", actorName, t.phrase(object))
}

// pairMessage renders the two-actor form: "{actor} and {previous} <phrase>".
func pairMessage(t Type, actorName, previousActorName, object string) string {
	return fmt.Sprintf("%s and %s %s", actorName, previousActorName, t.phrase(object))
}

// crowdMessage renders the many-actor form:
// "{actor} and {n} other people <phrase>".
func crowdMessage(t Type, actorName string, others int64, object string) string {
	return fmt.Sprintf("%s and %d other people %s", actorName, others, t.phrase(object))
}
