package comet

import "context"

// The operation catalog. Each name selects one persisted upstream query via
// its doc id (see Tables.DocIDs) and fixes the variable shape that query
// expects. Variables the upstream requires but this package never varies are
// inlined as literals.
const (
	opProfileHeader          = "ProfileCometHeaderQuery"
	opProfileAbout           = "ProfilePlusCometLoggedOutRootQuery"
	opProfileTimeline        = "ProfileCometTimelineFeedQuery"
	opProfileTimelineRefetch = "ProfileCometTimelineFeedRefetchQuery"
	opPostDialog             = "CometSinglePostDialogContentQuery"
	opCommentsPagination     = "CommentsListComponentsPaginationQuery"
	opCommentsRoot           = "CommentListComponentsRootQuery"
	opRepliesPagination      = "Depth1CommentsListPaginationQuery"
	opReelRoot               = "FBReelsRootWithEntrypointQuery"
	opGroupRoot              = "CometGroupRootQuery"
	opGroupLayout            = "GroupsCometDiscussionLayoutRootQuery"
	opGroupFeed              = "CometGroupDiscussionRootSuccessQuery"
	opGroupFeedRefetch       = "GroupsCometFeedRegularStoriesPaginationQuery"
	opAlbum                  = "CometPhotoAlbumQuery"
	opAlbumPagination        = "CometAlbumPhotoCollagePaginationQuery"
	opPhotoRoot              = "CometPhotoRootContentQuery"
	opSearch                 = "SearchCometResultsPaginatedResultsQuery"
)

func (s *Session) profileHeader(ctx context.Context, userID string) ([]document, error) {
	return s.invoke(ctx, opProfileHeader, map[string]any{
		"scale":                         1,
		"selectedID":                    userID,
		"selectedSpaceType":             "community",
		"shouldUseFXIMProfilePicEditor": false,
		"userID":                        userID,
	}, false)
}

func (s *Session) profileAbout(ctx context.Context, userID string) ([]document, error) {
	return s.invoke(ctx, opProfileAbout, map[string]any{
		"scale":  1,
		"userID": userID,
	}, false)
}

func (s *Session) profileTimeline(ctx context.Context, userID string) ([]document, error) {
	return s.invoke(ctx, opProfileTimeline, map[string]any{
		"count":                          1,
		"feedbackSource":                 0,
		"feedLocation":                   "TIMELINE",
		"omitPinnedPost":                 false,
		"privacySelectorRenderLocation":  "COMET_STREAM",
		"renderLocation":                 "timeline",
		"scale":                          1,
		"stream_count":                   1,
		"userID":                         userID,
	}, false)
}

func (s *Session) profileTimelineRefetch(ctx context.Context, userID, cursor string) ([]document, error) {
	return s.invoke(ctx, opProfileTimelineRefetch, map[string]any{
		"afterTime":                     nil,
		"beforeTime":                    nil,
		"count":                         3,
		"cursor":                        nullable(cursor),
		"feedLocation":                  "TIMELINE",
		"feedbackSource":                0,
		"focusCommentID":                nil,
		"memorializedSplitTimeFilter":   nil,
		"omitPinnedPost":                false,
		"postedBy":                      nil,
		"privacy":                       nil,
		"privacySelectorRenderLocation": "COMET_STREAM",
		"renderLocation":                "timeline",
		"scale":                         1,
		"stream_count":                  1,
		"taggedInOnly":                  nil,
		"trackingCode":                  nil,
		"useDefaultActor":               false,
		"id":                            userID,
	}, false)
}

func (s *Session) postDialog(ctx context.Context, storyID, focusID string) ([]document, error) {
	return s.invoke(ctx, opPostDialog, map[string]any{
		"feedbackSource":                2,
		"feedLocation":                  "PERMALINK",
		"focusCommentID":                nullable(focusID),
		"privacySelectorRenderLocation": "COMET_STREAM",
		"renderLocation":                "permalink",
		"scale":                         1,
		"storyID":                       storyID,
		"useDefaultActor":               false,
	}, false)
}

func (s *Session) commentsPagination(ctx context.Context, feedbackID, cursor string) ([]document, error) {
	return s.invoke(ctx, opCommentsPagination, map[string]any{
		"commentsAfterCount":   -1,
		"commentsAfterCursor":  nullable(cursor),
		"commentsBeforeCount":  nil,
		"commentsBeforeCursor": nil,
		"commentsIntentToken":  nil,
		"feedLocation":         "PERMALINK",
		"focusCommentID":       nil,
		"scale":                1,
		"useDefaultActor":      false,
		"id":                   feedbackID,
	}, false)
}

func (s *Session) commentsRoot(ctx context.Context, feedbackID, sortToken, focusID string) ([]document, error) {
	return s.invoke(ctx, opCommentsRoot, map[string]any{
		"commentsIntentToken": sortToken,
		"feedLocation":        "PERMALINK",
		"feedbackSource":      2,
		"focusCommentID":      nullable(focusID),
		"scale":               1,
		"useDefaultActor":     false,
		"id":                  feedbackID,
	}, false)
}

func (s *Session) repliesPagination(ctx context.Context, feedbackID, expansionToken, cursor string) ([]document, error) {
	return s.invoke(ctx, opRepliesPagination, map[string]any{
		"clientKey":           nil,
		"expansionToken":      expansionToken,
		"feedLocation":        "PERMALINK",
		"focusCommentID":      nil,
		"repliesAfterCount":   nil,
		"repliesAfterCursor":  nullable(cursor),
		"repliesBeforeCount":  nil,
		"repliesBeforeCursor": nil,
		"scale":               1,
		"useDefaultActor":     false,
		"id":                  feedbackID,
	}, false)
}

func (s *Session) reelRoot(ctx context.Context, reelID string) ([]document, error) {
	return s.invoke(ctx, opReelRoot, map[string]any{
		"count":         0,
		"group_id_list": []string{},
		"initial_node_id": reelID,
		"isAggregationProfileViewerOrShouldShowReelsForPage": true,
		"page_id":                 "",
		"recent_vpvs_v2":          []string{},
		"renderLocation":          "fb_shorts_profile_video_deep_dive",
		"root_video_id":           reelID,
		"root_video_tracking_key": "",
		"scale":                   1,
		"shouldIncludeInitialNodeFetch": true,
		"shouldShowReelsForPage":        false,
		"surface_type":                  "FEED_VIDEO_DEEP_DIVE",
		"useDefaultActor":               false,
	}, false)
}

func (s *Session) groupRoot(ctx context.Context, groupID string) ([]document, error) {
	return s.invoke(ctx, opGroupRoot, map[string]any{
		"groupID":                      groupID,
		"inviteShortLinkKey":           nil,
		"isChainingRecommendationUnit": false,
		"scale":                        1,
	}, false)
}

func (s *Session) groupLayout(ctx context.Context, groupID string) ([]document, error) {
	return s.invoke(ctx, opGroupLayout, map[string]any{
		"groupID": groupID,
		"scale":   1,
	}, false)
}

// groupFeed is the one tolerant operation: the upstream regularly reports a
// benign field exception here while still returning a usable feed.
func (s *Session) groupFeed(ctx context.Context, groupID string) ([]document, error) {
	return s.invoke(ctx, opGroupFeed, map[string]any{
		"autoOpenChat":                  false,
		"creative_provider_id":          nil,
		"feedbackSource":                0,
		"feedLocation":                  "GROUP",
		"feedType":                      "DISCUSSION",
		"focusCommentID":                nil,
		"groupID":                       groupID,
		"hasHoistStories":               false,
		"hoistedSectionHeaderType":      "notifications",
		"hoistStories":                  []string{},
		"hoistStoriesCount":             0,
		"privacySelectorRenderLocation": "COMET_STREAM",
		"regular_stories_count":         1,
		"regular_stories_stream_initial_count": 1,
		"renderLocation":                       "group",
		"scale":                                1,
		"shouldDeferMainFeed":                  false,
		"sortingSetting":                       "RECENT_ACTIVITY",
		"threadID":                             "",
		"useDefaultActor":                      false,
	}, true)
}

func (s *Session) groupFeedRefetch(ctx context.Context, groupID, cursor string) ([]document, error) {
	return s.invoke(ctx, opGroupFeedRefetch, map[string]any{
		"count":                         3,
		"cursor":                        nullable(cursor),
		"feedLocation":                  "GROUP",
		"feedType":                      "DISCUSSION",
		"feedbackSource":                0,
		"focusCommentID":                nil,
		"privacySelectorRenderLocation": "COMET_STREAM",
		"renderLocation":                "group",
		"scale":                         1,
		"sortingSetting":                "RECENT_ACTIVITY",
		"stream_initial_count":          1,
		"useDefaultActor":               false,
		"id":                            groupID,
	}, false)
}

func (s *Session) album(ctx context.Context, token string) ([]document, error) {
	return s.invoke(ctx, opAlbum, map[string]any{
		"feedbackSource":                65,
		"feedLocation":                  "PERMALINK",
		"focusCommentID":                nil,
		"mediasetToken":                 token,
		"privacySelectorRenderLocation": "COMET_STREAM",
		"renderLocation":                "permalink",
		"scale":                         1,
		"useDefaultActor":               false,
	}, false)
}

func (s *Session) albumPagination(ctx context.Context, albumID, cursor string) ([]document, error) {
	return s.invoke(ctx, opAlbumPagination, map[string]any{
		"count":          14,
		"cursor":         nullable(cursor),
		"renderLocation": "permalink",
		"scale":          1,
		"id":             albumID,
	}, false)
}

func (s *Session) photoRoot(ctx context.Context, nodeID string) ([]document, error) {
	return s.invoke(ctx, opPhotoRoot, map[string]any{
		"feedbackSource":                65,
		"feedLocation":                  "COMET_MEDIA_VIEWER",
		"privacySelectorRenderLocation": "COMET_MEDIA_VIEWER",
		"renderLocation":                "comet_media_viewer",
		"scale":                         1,
		"useDefaultActor":               false,
		"isMediaset":                    true,
		"mediasetToken":                 "",
		"nodeID":                        nodeID,
		"focusCommentID":                nil,
	}, false)
}

func (s *Session) search(ctx context.Context, query, surface, cursor string, filters []string) ([]document, error) {
	if filters == nil {
		filters = []string{}
	}
	return s.invoke(ctx, opSearch, map[string]any{
		"allow_streaming": false,
		"args": map[string]any{
			"callsite": "COMET_GLOBAL_SEARCH",
			"config": map[string]any{
				"exact_match":            false,
				"high_confidence_config": nil,
				"intercept_config":       nil,
				"sts_disambiguation":     nil,
				"watch_config":           nil,
			},
			"context": map[string]any{},
			"experience": map[string]any{
				"client_defined_experiences":    []string{"ADS_PARALLEL_FETCH"},
				"encoded_server_defined_params": nil,
				"fbid":                          nil,
				"type":                          surface,
			},
			"filters": filters,
			"text":    query,
		},
		"count":                         5,
		"cursor":                        nullable(cursor),
		"feedLocation":                  "SEARCH",
		"feedbackSource":                23,
		"fetch_filters":                 true,
		"focusCommentID":                nil,
		"locale":                        nil,
		"privacySelectorRenderLocation": "COMET_STREAM",
		"renderLocation":                "search_results_page",
		"scale":                         1,
		"stream_initial_count":          0,
		"useDefaultActor":               false,
	}, false)
}
