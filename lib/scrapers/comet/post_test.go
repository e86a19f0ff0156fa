package comet

import (
	"context"
	"fmt"
	"testing"

	"facet-backend/lib/codec"

	"github.com/stretchr/testify/require"
)

func commentFixture(id, text string, depth int) string {
	return fmt.Sprintf(`{"legacy_fbid":"%s","depth":%d,"created_time":1700000100,"author":{"id":"9","name":"C","url":"https://www.facebook.com/c","profile_picture_depth_0":{"uri":"pic"}},"body":{"text":"%s"},"feedback":{"id":"cfb-%s","expansion_info":{"expansion_token":"exp-%s"},"replies_fields":{"total_count":0},"top_reactions":{"edges":[]}}}`, id, depth, text, id, id)
}

func commentsListFixture(cursor string, hasNext bool, comments ...string) string {
	edges := ""
	for i, c := range comments {
		if i > 0 {
			edges += ","
		}
		edges += `{"node":` + c + `}`
	}
	return fmt.Sprintf(`{"data":{"node":{"comment_rendering_instance_for_feed_location":{"comments":{"edges":[%s],"page_info":{"end_cursor":"%s","has_next_page":%t}}}}}}`, edges, cursor, hasNext)
}

func postRouteExports(storyID string) string {
	return fmt.Sprintf(
		`{"type":"","exports":{"entityKeyConfig":{"entity_type":{"value":"post"}},"rootView":{"props":{"storyID":"%s"}}}}`,
		storyID,
	)
}

func TestPostFromPermalink(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.route("/user/posts/tok", postRouteExports("s1"))
	upstream.query(opPostDialog, `{"data":{"node":`+storyFixture("", feedbackFixture, "")+`}}`)
	upstream.query(opCommentsRoot, commentsListFixture("cc0", true,
		commentFixture("c1", "first", 0),
		commentFixture("c2", "second", 0),
	))
	upstream.query(opCommentsPagination, commentsListFixture("cc1", true,
		commentFixture("c3", "paged", 0),
	))
	session := newTestSession(t, upstream)

	result, err := session.PostFromPermalink(context.Background(), "user", "tok", PostRequest{})
	require.NoError(t, err)

	require.Equal(t, "p1", result.Post.PostID)
	require.Equal(t, "fb9", result.Post.FeedbackID)

	// 2 from the root query plus one per bounded pagination round
	require.Equal(t, commentPageLimit, upstream.hitCount(DefaultTables().DocIDs[opCommentsPagination]))
	require.Len(t, result.Comments, 2+commentPageLimit)
	require.Equal(t, "first", result.Comments[0].Text)
	require.Equal(t, "cc1", result.Cursor)
	require.True(t, result.HasNext)
}

func TestPostFromPermalinkMissingArgs(t *testing.T) {
	session := newTestSession(t, newFakeUpstream(t))

	_, err := session.PostFromPermalink(context.Background(), "", "tok", PostRequest{})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = session.PostFromPermalink(context.Background(), "user", "", PostRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostWithoutFeedbackSkipsComments(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.route("/user/posts/tok", postRouteExports("s1"))
	upstream.query(opPostDialog, `{"data":{"node":`+storyFixture("", "", "")+`}}`)
	session := newTestSession(t, upstream)

	result, err := session.PostFromPermalink(context.Background(), "user", "tok", PostRequest{})
	require.NoError(t, err)
	require.Empty(t, result.Comments)
	require.Equal(t, 0, upstream.hitCount(DefaultTables().DocIDs[opCommentsRoot]))
}

func TestPostFocusedCommentReplies(t *testing.T) {
	main := fmt.Sprintf(`{"legacy_fbid":"c1","depth":0,"author":{"id":"9","name":"C","url":"https://www.facebook.com/c","profile_picture_depth_0":{"uri":"pic"}},"body":{"text":"main"},"feedback":{"id":"cfb-c1","expansion_info":{"expansion_token":"exp-c1"},"replies_fields":{"total_count":5},"top_reactions":{"edges":[]},"replies_connection":{"edges":[{"node":%s}],"page_info":{"end_cursor":"r0","has_next_page":true}}}}`, commentFixture("c2", "reply", 1))

	upstream := newFakeUpstream(t)
	upstream.route("/user/posts/tok", postRouteExports("s1"))
	upstream.query(opPostDialog, `{"data":{"node":`+storyFixture("", feedbackFixture, "")+`}}`)
	upstream.query(opCommentsRoot, commentsListFixture("unused", false, main))
	upstream.query(opRepliesPagination, fmt.Sprintf(
		`{"data":{"node":{"replies_connection":{"edges":[{"node":%s}],"page_info":{"end_cursor":"r1","has_next_page":true}}}}}`,
		commentFixture("c4", "more", 1),
	))
	session := newTestSession(t, upstream)

	result, err := session.PostFromPermalink(context.Background(), "user", "tok", PostRequest{Focus: "c1"})
	require.NoError(t, err)

	require.Equal(t, commentPageLimit, upstream.hitCount(DefaultTables().DocIDs[opRepliesPagination]))
	require.Len(t, result.Comments, 2+commentPageLimit)
	require.Equal(t, "main", result.Comments[0].Text)
	require.Equal(t, "reply", result.Comments[1].Text)
	require.True(t, result.Comments[1].IsReply)
	require.Equal(t, "r1", result.Cursor)
}

func TestPostFromReel(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opReelRoot, `{"data":{"video":{"creation_story":{"id":"s1"}}}}`)
	upstream.query(opPostDialog, `{"data":{"node":`+storyFixture("", "", "")+`}}`)
	session := newTestSession(t, upstream)

	result, err := session.PostFromReel(context.Background(), "12345", PostRequest{})
	require.NoError(t, err)
	require.Equal(t, "p1", result.Post.PostID)
}

func TestPostFromReelMissing(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opReelRoot, `{"data":{"video":null}}`)
	session := newTestSession(t, upstream)

	_, err := session.PostFromReel(context.Background(), "not-a-number", PostRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostFromVideo(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.route("/user/videos/55", `{"type":"","exports":{"entityKeyConfig":{"entity_type":{"value":"videos"}},"rootView":{"props":{"pageID":"77","v":"55"}}}}`)
	upstream.query(opPostDialog, `{"data":{"node":`+storyFixture("", "", "")+`}}`)
	session := newTestSession(t, upstream)

	result, err := session.PostFromVideo(context.Background(), "user", "55", PostRequest{})
	require.NoError(t, err)
	require.Equal(t, "p1", result.Post.PostID)
}

func TestPostFromPhoto(t *testing.T) {
	containerID := codec.PackID("S:1234567:VK:pfbid0photo")

	upstream := newFakeUpstream(t)
	upstream.query(opPhotoRoot, fmt.Sprintf(
		`{"data":{"currMedia":{"id":"ph1","container_story":{"id":"%s"}}}}`,
		containerID,
	))
	upstream.query(opPostDialog, `{"data":{"node":`+storyFixture("", "", "")+`}}`)
	session := newTestSession(t, upstream)

	result, err := session.PostFromPhoto(context.Background(), "ph1", PostRequest{})
	require.NoError(t, err)
	require.Equal(t, "p1", result.Post.PostID)
}

func TestPostFromPhotoMissing(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opPhotoRoot, `{"data":{"currMedia":null}}`)
	session := newTestSession(t, upstream)

	_, err := session.PostFromPhoto(context.Background(), "ph1", PostRequest{})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = session.PostFromPhoto(context.Background(), "", PostRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostSortTokens(t *testing.T) {
	require.Equal(t, "RANKED_UNFILTERED_CHRONOLOGICAL_REPLIES_INTENT_V1", PostRequest{Sort: "all"}.sortToken())
	require.Equal(t, "RECENT_ACTIVITY_INTENT_V1", PostRequest{Sort: "newest"}.sortToken())
	require.Equal(t, "RANKED_FILTERED_INTENT_V1", PostRequest{}.sortToken())
}
