package comet

import (
	"encoding/json"
	"strings"
	"testing"

	"facet-backend/lib/codec"

	"github.com/stretchr/testify/require"
)

const headerFixture = `{"story":{"comet_sections":{"actor_photo":{"story":{"actors":[{"profile_picture":{"uri":"avatar"}}]}},"title":{"story":{"comet_sections":{"badge":{"__typename":"CometFeedUserVerifiedBadgeStrategy"}}}},"metadata":[{"__typename":"CometFeedStoryLongerTimestampStrategy","story":{"creation_time":1700000001}}]}}}`

const feedbackFixture = `{"story":{"feedback_context":{"feedback_target_with_context":{"comet_ufi_summary_and_actions_renderer":{"feedback":{"id":"fb9","top_reactions":{"edges":[{"reaction_count":4,"node":{"id":"1635855486666999"}}]},"comment_rendering_instance":{"comments":{"total_count":6}},"share_count":{"count":2},"video_view_count":9}}}}}}`

// storyFixture builds a minimal story node. attachment and to may be empty;
// feedback defaults to no UFI container.
func storyFixture(attachment, feedback, to string) string {
	if feedback == "" {
		feedback = "null"
	}
	attachments := ""
	if attachment != "" {
		attachments = `,"attachments":[{"styles":` + attachment + `}]`
	}
	toField := ""
	if to != "" {
		toField = `"to":` + to + `,`
	}
	return `{"id":"` + codec.PackID("S:_I42:777") + `","post_id":"p1","actors":[{"id":"42","name":"Author","url":"https://www.facebook.com/author"}],` + toField + `"comet_sections":{"context_layout":` + headerFixture + `,"content":{"story":{"comet_sections":{"message":{"story":{"message":{"text":"hello"}}}}` + attachments + `}},"feedback":{"story":{"story_ufi_container":` + feedback + `}}}}`
}

func parseFixture(t *testing.T, raw string) Post {
	var node storyNode
	require.NoError(t, json.Unmarshal([]byte(raw), &node))
	post, err := testSession(t).parsePost(&node)
	require.NoError(t, err)
	return post
}

func TestParsePostBasics(t *testing.T) {
	post := parseFixture(t, storyFixture("", feedbackFixture, ""))

	require.Equal(t, "p1", post.PostID)
	require.Equal(t, "42", post.Author.ID)
	require.Equal(t, "author", post.Author.Username)
	require.Equal(t, "avatar", post.Author.PictureURL)
	require.True(t, post.Author.Verified)
	require.Equal(t, "hello", post.Text)
	require.Equal(t, int64(1700000001), post.Time)
	require.Equal(t, "fb9", post.FeedbackID)
	require.Equal(t, 4, post.Reactions["like"])
	require.Equal(t, 4, post.Reactions["total"])
	require.Equal(t, 6, post.CommentsCount)
	require.Equal(t, 2, post.ShareCount)
	require.NotNil(t, post.ViewCount)
	require.Equal(t, int64(9), *post.ViewCount)
	require.Nil(t, post.SharedPost)
	require.False(t, post.IsVideo)
}

func TestParsePostNoFeedbackContainer(t *testing.T) {
	post := parseFixture(t, storyFixture("", "", ""))
	require.Equal(t, "", post.FeedbackID)
	require.Equal(t, 0, post.Reactions["total"])
	require.Nil(t, post.ViewCount)
}

func TestParsePostSyntheticAuthorUsername(t *testing.T) {
	raw := storyFixture("", "", "")
	raw = stringsReplace(t, raw,
		`"url":"https://www.facebook.com/author"`,
		`"url":"https://www.facebook.com/people/author/pfbid0abc/"`,
	)
	post := parseFixture(t, raw)
	// the numeric id is recovered from the packed story id
	require.Equal(t, "42", post.Author.Username)
}

func TestParsePostVideoPromotion(t *testing.T) {
	video := `{"__typename":"StoryAttachmentVideoStyleRenderer","attachment":{"media":{"id":"v9","owner":{"id":"42"},"videoDeliveryLegacyFields":{"browser_native_hd_url":"hd"}}}}`

	post := parseFixture(t, storyFixture(video, "", ""))
	require.True(t, post.IsVideo)
	require.Equal(t, "v9", post.PostID)
	require.Equal(t, []Attachment{Video{ID: "v9", URL: "hd", OwnerID: "42"}}, post.Attachments)

	// group posts keep their own post id
	group := `{"__typename":"Group","id":"g1","name":"G","url":"https://www.facebook.com/groups/golang/"}`
	post = parseFixture(t, storyFixture(video, "", group))
	require.False(t, post.IsVideo)
	require.Equal(t, "p1", post.PostID)
	require.NotNil(t, post.FromGroup)
	require.Equal(t, "golang", post.FromGroup.Username)
}

func TestParsePostAlbumFilesLeft(t *testing.T) {
	album := `{"__typename":"StoryAttachmentAlbumStyleRenderer","attachment":{"five_photos_subattachments":{"count": 7,"nodes": [{"media":{"__typename":"Photo","id":"1","viewer_image":{"uri":"u1"},"owner":{"id":"42"}}},{"media":{"__typename":"Photo","id":"2","viewer_image":{"uri":"u2"},"owner":{"id":"42"}}},{"media":{"__typename":"Video","id":"3","owner":{"id":"42"},"video_grid_renderer":{"video":{"videoDeliveryLegacyFields":{"browser_native_sd_url":"sd"}}}}},{"media":{"__typename":"Photo","id":"4","viewer_image":{"uri":"u4"},"owner":{"id":"42"}}},{"media":{"__typename":"GenericMedia"}}]}}}`

	post := parseFixture(t, storyFixture(album, "", ""))
	require.Len(t, post.Attachments, 5)
	require.Equal(t, 2, post.FilesLeft)
	require.Equal(t, Unsupported{}, post.Attachments[4])
	require.Equal(t, Video{ID: "3", URL: "sd", OwnerID: "42"}, post.Attachments[2])
}

func TestParsePostAlbumComplete(t *testing.T) {
	album := `{"__typename":"StoryAttachmentAlbumColumnStyleRenderer","attachment":{"all_subattachments":{"count": 2,"nodes": [{"media":{"__typename":"Photo","id":"1","viewer_image":{"uri":"u1"},"owner":{"id":"42"}}},{"media":{"__typename":"Photo","id":"2","viewer_image":{"uri":"u2"},"owner":{"id":"42"}}}]}}}`

	post := parseFixture(t, storyFixture(album, "", ""))
	require.Len(t, post.Attachments, 2)
	require.Equal(t, 0, post.FilesLeft)
}

func TestParsePostPollZeroVoters(t *testing.T) {
	poll := `{"__typename":"StoryAttachmentTextPollStyleRenderer","attachment":{"target":{"poll_question_text":"Pick one","orderedOptions":{"nodes":[{"text":"a","profile_voters":{"count":0}},{"text":"b","profile_voters":{"count":0}}]}}}}`

	post := parseFixture(t, storyFixture(poll, "", ""))
	require.NotNil(t, post.VotersCount)
	require.Equal(t, 0, *post.VotersCount)
	require.Equal(t, []Attachment{Poll{
		Text:  "Pick one",
		Total: 0,
		Options: []PollOption{
			{Text: "a", Votes: 0, Percent: 0},
			{Text: "b", Votes: 0, Percent: 0},
		},
	}}, post.Attachments)
}

func TestParsePostPollPercentages(t *testing.T) {
	poll := `{"__typename":"StoryAttachmentTextPollStyleRenderer","attachment":{"target":{"poll_question_text":"Pick one","orderedOptions":{"nodes":[{"text":"a","profile_voters":{"count":1}},{"text":"b","profile_voters":{"count":2}}]}}}}`

	post := parseFixture(t, storyFixture(poll, "", ""))
	require.Equal(t, 3, *post.VotersCount)
	poll0 := post.Attachments[0].(Poll)
	require.Equal(t, 33, poll0.Options[0].Percent)
	require.Equal(t, 66, poll0.Options[1].Percent)
}

func TestParsePostAnimatedImageClearsViewCount(t *testing.T) {
	animated := `{"__typename":"StoryAttachmentAnimatedImageShareStyleRenderer","attachment":{"media":{"videoDeliveryLegacyFields":{"browser_native_sd_url":"sd"}}}}`

	post := parseFixture(t, storyFixture(animated, feedbackFixture, ""))
	require.Nil(t, post.ViewCount)
	require.Equal(t, []Attachment{AnimatedImage{URL: "sd"}}, post.Attachments)
}

func TestParsePostUnknownAttachment(t *testing.T) {
	unknown := `{"__typename":"StoryAttachmentMapStyleRenderer","attachment":{}}`
	post := parseFixture(t, storyFixture(unknown, "", ""))
	require.Equal(t, []Attachment{Unsupported{}}, post.Attachments)
}

func TestParsePostShareAppendsLink(t *testing.T) {
	share := `{"__typename":"StoryAttachmentShareStyleRenderer","attachment":{"story_attachment_link_renderer":{"attachment":{"web_link":{"url":"https://example.com/article"}}}}}`

	post := parseFixture(t, storyFixture(share, "", ""))
	require.Equal(t, "hello\nhttps://example.com/article", post.Text)
	require.Empty(t, post.Attachments)
}

func TestParsePostUnavailableAttachment(t *testing.T) {
	unavailable := `{"__typename":"StoryAttachmentUnavailableStyleRenderer","attachment":{}}`
	post := parseFixture(t, storyFixture(unavailable, "", ""))
	require.Equal(t, []Attachment{Unavailable{}}, post.Attachments)
}

func TestParseSharedPostOneLevelDeep(t *testing.T) {
	inner := `{"id":"inner-sid","post_id":"p2","actors":[{"id":"43","name":"Original","url":"https://www.facebook.com/original"}]}`
	raw := `{"id":"outer-sid","post_id":"p1","actors":[{"id":"42","name":"Resharer","url":"https://www.facebook.com/resharer"}],"attached_story":{"comet_sections":{"context_layout":` + headerFixture + `}},"comet_sections":{"context_layout":` + headerFixture + `,"content":{"story":{"comet_sections":{"message":{"story":{"message":{"text":"look at this"}}},"attached_story":{"story":{"attached_story":{"comet_sections":{"attached_story_layout":{"story":{"comet_sections":{"message":{"story":{"message":{"text":"the original"}}}}}}}}}}},"attached_story":` + inner + `}},"feedback":{"story":{"story_ufi_container":` + feedbackFixture + `}}}}`

	post := parseFixture(t, raw)
	require.Equal(t, "look at this", post.Text)
	require.NotNil(t, post.SharedPost)

	shared := post.SharedPost
	require.Equal(t, "inner-sid", shared.ID)
	require.Equal(t, "p2", shared.PostID)
	require.Equal(t, "original", shared.Author.Username)
	require.Equal(t, "the original", shared.Text)
	// the reflection never recurses further
	require.Nil(t, shared.SharedPost)
	// feedback on the reflection comes from the outer node
	require.Equal(t, "fb9", shared.FeedbackID)
}

func stringsReplace(t *testing.T, s, old, new string) string {
	require.Contains(t, s, old)
	return strings.ReplaceAll(s, old, new)
}
