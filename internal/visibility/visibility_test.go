package visibility_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/graph"
	"github.com/openbook-app/backend/internal/visibility"
)

const (
	owner    = uint(1)
	friendA  = uint(2)
	friendB  = uint(3)
	friendC  = uint(4)
	stranger = uint(5)
)

// newGraph builds a graph where users 2, 3, 4 are friends of user 1 and
// user 5 is a stranger.
func newGraph() *graph.Memory {
	g := graph.NewMemory()
	g.AddFriendship(owner, friendA)
	g.AddFriendship(owner, friendB)
	g.AddFriendship(owner, friendC)
	return g
}

func TestPublicVisibleToEveryone(t *testing.T) {
	ev := visibility.NewEvaluator(newGraph())
	content := visibility.Content{OwnerID: owner, Privacy: visibility.Public, Destination: visibility.DestBiography}

	for _, viewer := range []uint{owner, friendA, stranger} {
		ok, err := ev.CanView(context.Background(), content, viewer)
		require.NoError(t, err)
		assert.True(t, ok, "viewer %d should see a public post", viewer)
	}
}

func TestFriendsModeRequiresFriendship(t *testing.T) {
	ev := visibility.NewEvaluator(newGraph())
	content := visibility.Content{OwnerID: owner, Privacy: visibility.Friends, Destination: visibility.DestBiography}

	cases := []struct {
		viewer uint
		want   bool
	}{
		{owner, true},
		{friendA, true},
		{stranger, false},
	}
	for _, tc := range cases {
		ok, err := ev.CanView(context.Background(), content, tc.viewer)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "viewer %d", tc.viewer)
	}
}

func TestSpecificFriendsOnlyListedViewers(t *testing.T) {
	ev := visibility.NewEvaluator(newGraph())
	content := visibility.Content{
		OwnerID:         owner,
		Privacy:         visibility.SpecificFriends,
		SpecificFriends: []uint{friendA},
		Destination:     visibility.DestBiography,
	}

	cases := []struct {
		viewer uint
		want   bool
	}{
		{owner, true},
		{friendA, true},
		{friendB, false}, // a friend, but not listed
		{stranger, false},
	}
	for _, tc := range cases {
		ok, err := ev.CanView(context.Background(), content, tc.viewer)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "viewer %d", tc.viewer)
	}
}

// An excluded friend is denied even though the friendship edge exists,
// and a stranger is denied by the friendship conjunct regardless of the
// exclusion list.
func TestFriendsExceptExclusionWins(t *testing.T) {
	ev := visibility.NewEvaluator(newGraph())
	content := visibility.Content{
		OwnerID:         owner,
		Privacy:         visibility.FriendsExcept,
		ExcludedFriends: []uint{friendB},
		Destination:     visibility.DestBiography,
	}

	cases := []struct {
		viewer uint
		want   bool
	}{
		{owner, true},
		{friendA, true},
		{friendB, false},
		{friendC, true},
		{stranger, false},
	}
	for _, tc := range cases {
		ok, err := ev.CanView(context.Background(), content, tc.viewer)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "viewer %d", tc.viewer)
	}
}

// A public post in a private group is still hidden from a pending
// (inactive) member: the group gate runs before the privacy mode.
func TestPrivateGroupGatePrecedesPublic(t *testing.T) {
	g := newGraph()
	const groupID = uint(10)
	g.AddMembership(friendA, groupID, true)
	g.AddMembership(stranger, groupID, false) // pending membership

	ev := visibility.NewEvaluator(g)
	content := visibility.Content{
		OwnerID:       owner,
		Privacy:       visibility.Public,
		Destination:   visibility.DestGroup,
		DestinationID: groupID,
		PrivateGroup:  true,
	}

	ok, err := ev.CanView(context.Background(), content, friendA)
	require.NoError(t, err)
	assert.True(t, ok, "active member")

	ok, err = ev.CanView(context.Background(), content, stranger)
	require.NoError(t, err)
	assert.False(t, ok, "pending member must not see private group content")

	ok, err = ev.CanView(context.Background(), content, owner)
	require.NoError(t, err)
	assert.True(t, ok, "owner always sees own content")
}

func TestPublicGroupContentNotGated(t *testing.T) {
	ev := visibility.NewEvaluator(newGraph())
	content := visibility.Content{
		OwnerID:       owner,
		Privacy:       visibility.Public,
		Destination:   visibility.DestGroup,
		DestinationID: 10,
		PrivateGroup:  false,
	}

	ok, err := ev.CanView(context.Background(), content, stranger)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOwnerSeesOwnContentUnderAnyMode(t *testing.T) {
	ev := visibility.NewEvaluator(graph.NewMemory()) // no edges at all

	for _, mode := range []visibility.PrivacyMode{
		visibility.Public, visibility.Friends, visibility.FriendsExcept, visibility.SpecificFriends,
	} {
		content := visibility.Content{OwnerID: owner, Privacy: mode, Destination: visibility.DestBiography}
		ok, err := ev.CanView(context.Background(), content, owner)
		require.NoError(t, err)
		assert.True(t, ok, "mode %s", mode)
	}
}

func TestUnknownModeDenied(t *testing.T) {
	ev := visibility.NewEvaluator(newGraph())
	content := visibility.Content{OwnerID: owner, Privacy: "SECRET"}

	ok, err := ev.CanView(context.Background(), content, friendA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name     string
		mode     visibility.PrivacyMode
		specific []uint
		excluded []uint
		wantErr  error
	}{
		{"public ok", visibility.Public, nil, nil, nil},
		{"friends ok", visibility.Friends, nil, nil, nil},
		{"specific with list", visibility.SpecificFriends, []uint{2}, nil, nil},
		{"except with list", visibility.FriendsExcept, nil, []uint{3}, nil},
		{"specific empty list", visibility.SpecificFriends, nil, nil, errs.PrivacyListMissing},
		{"except empty list", visibility.FriendsExcept, nil, nil, errs.PrivacyListMissing},
		{"public with specific list", visibility.Public, []uint{2}, nil, errs.PrivacyListForbidden},
		{"friends with excluded list", visibility.Friends, nil, []uint{3}, errs.PrivacyListForbidden},
		{"specific with excluded list", visibility.SpecificFriends, []uint{2}, []uint{3}, errs.PrivacyListForbidden},
		{"except with specific list", visibility.FriendsExcept, []uint{2}, []uint{3}, errs.PrivacyListForbidden},
		{"unknown mode", "SECRET", nil, nil, errs.PrivacyModeInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := visibility.ValidateConfig(tc.mode, tc.specific, tc.excluded)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
