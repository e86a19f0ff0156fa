package comet

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const groupRootFixture = `{"data":{"group":{"profile_header_renderer":{"group":{"name":"Gophers","url":"https://www.facebook.com/groups/golang/","cover_renderer":{"cover_photo_content":{"photo":{"image":{"uri":"cover"}}}},"group_member_profiles":{"formatted_count_text":"52K members"}}}}}}`

const groupLayoutFixture = `{"data":{"comet_discussion_tab_cards":[{"group":{"description_with_entities":{"text":"a group about go"},"privacy_info":{"label":{"text":"Private"}},"group_locations":[{"name":"Berlin"},{"name":"Hamburg"}]}}]}}`

func groupExports(groupID string) string {
	return `{"type":"","exports":{"entityKeyConfig":{"entity_type":{"value":"group"}},"rootView":{"props":{"groupID":"` + groupID + `"}}}}`
}

func groupFeedRefetchFixture(story, cursor string, hasNext bool) string {
	next := "false"
	if hasNext {
		next = "true"
	}
	return strings.Join([]string{
		`{"data":{"node":{"group_feed":{"edges":[]}}}}`,
		`{"label":"GroupsCometFeedRegularStories_group_group_feed$stream$0","data":{"node":` + story + `}}`,
		`{"label":"GroupsCometFeedRegularStories_group_group_feed$defer$pi","data":{"page_info":{"end_cursor":"` + cursor + `","has_next_page":` + next + `}}}`,
	}, "\n")
}

func TestGetGroup(t *testing.T) {
	story := storyFixture("", "", "")

	upstream := newFakeUpstream(t)
	upstream.route("/groups/golang", groupExports("g1"))
	upstream.query(opGroupRoot, groupRootFixture)
	upstream.query(opGroupLayout, groupLayoutFixture)
	upstream.query(opGroupFeed, strings.Join([]string{
		`{"data":{}}`,
		`{"data":{"node":`+story+`}}`,
		`{"data":{"page_info":{"end_cursor":"g0","has_next_page":true}}}`,
	}, "\n"))
	upstream.query(opGroupFeedRefetch, groupFeedRefetchFixture(story, "g1c", true))
	session := newTestSession(t, upstream)

	result, err := session.GetGroup(context.Background(), "golang", "")
	require.NoError(t, err)

	require.Equal(t, "g1", result.Feed.ID)
	require.Equal(t, "golang", result.Feed.Token)
	require.Equal(t, "Gophers", result.Feed.Name)
	require.Equal(t, "a group about go", result.Feed.Description)
	require.Equal(t, "52K", result.Feed.Members)
	require.True(t, result.Feed.IsGroup)
	require.True(t, result.Feed.IsPrivate)
	require.Equal(t, "cover", result.Feed.CoverURL)
	require.Equal(t, []InfoItem{{Type: "location", Text: "Berlin, Hamburg"}}, result.Feed.Info)

	require.Equal(t, groupPageLimit, upstream.hitCount(DefaultTables().DocIDs[opGroupFeedRefetch]))
	require.Len(t, result.Posts, 1+groupPageLimit)
	require.Equal(t, "g1c", result.Cursor)
	require.True(t, result.HasNext)
}

func TestGetGroupNotFound(t *testing.T) {
	upstream := newFakeUpstream(t)
	session := newTestSession(t, upstream)

	_, err := session.GetGroup(context.Background(), "missing", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetGroupMissingPageInfo(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.route("/groups/golang", groupExports("g1"))
	upstream.query(opGroupRoot, groupRootFixture)
	upstream.query(opGroupLayout, groupLayoutFixture)
	upstream.query(opGroupFeed, `{"data":{}}`)
	session := newTestSession(t, upstream)

	_, err := session.GetGroup(context.Background(), "golang", "")
	require.ErrorIs(t, err, ErrInvalidResponse)
}
