package comet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func searchFixture(cursor string, hasNext bool, edges ...string) string {
	joined := ""
	for i, e := range edges {
		if i > 0 {
			joined += ","
		}
		joined += e
	}
	return fmt.Sprintf(
		`{"data":{"serpResponse":{"results":{"edges":[%s],"page_info":{"end_cursor":"%s","has_next_page":%t}}}}}`,
		joined, cursor, hasNext,
	)
}

const userEdgeFixture = `{"node":{"role":"ENTITY_USER"},"rendering_strategy":{"view_model":{"profile":{"id":"u1","name":"Some User","url":"https://www.facebook.com/some.user","is_verified":true,"profile_picture":{"uri":"pic"}},"description_snippets_text_with_entities":[{"text":"bio line"}]}}}`

func postEdgeFixture(story string) string {
	return `{"node":{"role":"TOP_PUBLIC_POSTS"},"rendering_strategy":{"view_model":{"click_model":{"story":` + story + `}}}}`
}

const endEdgeFixture = `{"node":{"role":"END_OF_RESULTS_INDICATOR"},"rendering_strategy":{"view_model":{}}}`

func TestSearch(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opSearch, searchFixture("s0", false,
		userEdgeFixture,
		postEdgeFixture(storyFixture("", "", "")),
		endEdgeFixture,
	))
	session := newTestSession(t, upstream)

	result, err := session.Search(context.Background(), "golang", "", "")
	require.NoError(t, err)

	// the terminal marker contributes nothing
	require.Len(t, result.Results, 2)

	user := result.Results[0].User
	require.NotNil(t, user)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "some.user", user.Username)
	require.True(t, user.Verified)
	require.Equal(t, "bio line", user.Description)

	post := result.Results[1].Post
	require.NotNil(t, post)
	require.Equal(t, "p1", post.PostID)
	require.False(t, result.HasNext)
}

func TestSearchPaginationBound(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opSearch, searchFixture("s1", true, userEdgeFixture))
	session := newTestSession(t, upstream)

	result, err := session.Search(context.Background(), "golang", "people", "")
	require.NoError(t, err)

	require.Equal(t, searchPageLimit, upstream.hitCount(DefaultTables().DocIDs[opSearch]))
	require.Len(t, result.Results, searchPageLimit)
	require.True(t, result.HasNext)
}

func TestSearchUnknownRole(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opSearch, searchFixture("", false,
		`{"node":{"role":"SOMETHING_NEW"},"rendering_strategy":{"view_model":{}}}`,
	))
	session := newTestSession(t, upstream)

	_, err := session.Search(context.Background(), "golang", "", "")
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSearchEmptyQuery(t *testing.T) {
	upstream := newFakeUpstream(t)
	session := newTestSession(t, upstream)

	result, err := session.Search(context.Background(), "", "", "")
	require.NoError(t, err)
	require.Empty(t, result.Results)
	require.Equal(t, 0, upstream.hitCount(DefaultTables().DocIDs[opSearch]))
}

func TestSearchProfileWithoutURL(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opSearch, searchFixture("", false, `{"node":{"role":"ENTITY_PAGES"},"rendering_strategy":{"view_model":{"profile":{"id":"p77","name":"A Page","url":"","is_verified":false,"profile_picture":{"uri":"pic"}}}}}`))
	session := newTestSession(t, upstream)

	result, err := session.Search(context.Background(), "pages", "", "")
	require.NoError(t, err)
	require.Equal(t, "p77", result.Results[0].User.Username)
}
