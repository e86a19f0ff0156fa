package comet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"facet-backend/lib/codec"

	"go.opentelemetry.io/otel/codes"
)

// comment threads page at most this many times per fetch, for both
// top-level comments and replies under a focused comment
const commentPageLimit = 2

// PostRequest selects which slice of a post's comment thread to fetch.
// Focus narrows the thread to one comment and its replies; Sort picks the
// upstream ordering ("all", "newest", or ranked by default).
type PostRequest struct {
	Cursor string
	Focus  string
	Sort   string
}

func (r PostRequest) sortToken() string {
	switch r.Sort {
	case "all":
		return "RANKED_UNFILTERED_CHRONOLOGICAL_REPLIES_INTENT_V1"
	case "newest":
		return "RECENT_ACTIVITY_INTENT_V1"
	default:
		return "RANKED_FILTERED_INTENT_V1"
	}
}

// PostResult is one post plus a bounded window of its comment thread.
type PostResult struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
	Cursor   string    `json:"cursor,omitempty"`
	HasNext  bool      `json:"has_next"`
}

// PostFromPermalink fetches the post behind /{username}/posts/{token}.
func (s *Session) PostFromPermalink(ctx context.Context, username, token string, req PostRequest) (*PostResult, error) {
	if username == "" || token == "" {
		return nil, ErrNotFound
	}
	exports, entityType, err := s.resolveRoute(ctx, "/"+username+"/posts/"+token, false)
	if err != nil {
		return nil, err
	}
	if exports == nil || entityType != entityPost {
		return nil, ErrNotFound
	}
	storyID := exports.RootView.Props.StoryID
	if storyID == "" {
		return nil, ErrNotFound
	}
	return s.fetchPost(ctx, storyID, req)
}

// PostFromVideo fetches the post hosting /{username}/videos/{token}. Video
// routes only export a page id and video id; the story id is packed from
// those.
func (s *Session) PostFromVideo(ctx context.Context, username, token string, req PostRequest) (*PostResult, error) {
	exports, entityType, err := s.resolveRoute(ctx, "/"+username+"/videos/"+token, false)
	if err != nil {
		return nil, err
	}
	if exports == nil || entityType != entityVideos {
		return nil, ErrNotFound
	}
	props := exports.RootView.Props
	if props.PageID == "" || props.VideoID == "" {
		return nil, ErrNotFound
	}
	storyID := codec.PackID("S:_I" + props.PageID + ":" + props.VideoID + ":" + props.VideoID)
	return s.fetchPost(ctx, storyID, req)
}

// PostFromReel fetches the post behind a reel video id. A non-numeric id
// degrades to id 0, which the upstream reports as missing.
func (s *Session) PostFromReel(ctx context.Context, videoID string, req PostRequest) (*PostResult, error) {
	reelID, err := strconv.Atoi(videoID)
	if err != nil {
		reelID = 0
	}
	docs, err := s.reelRoot(ctx, strconv.Itoa(reelID))
	if err != nil {
		return nil, err
	}
	var res reelResponse
	if err := docs[0].decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if res.Data.Video == nil {
		return nil, ErrNotFound
	}
	return s.fetchPost(ctx, res.Data.Video.CreationStory.ID, req)
}

// PostFromGroup fetches the post behind /groups/{groupToken}/posts/{token}.
func (s *Session) PostFromGroup(ctx context.Context, groupToken, token string, req PostRequest) (*PostResult, error) {
	exports, entityType, err := s.resolveRoute(ctx, "/groups/"+groupToken+"/posts/"+token, false)
	if err != nil {
		return nil, err
	}
	if exports == nil || entityType != entityGroupPost {
		return nil, ErrNotFound
	}
	storyID := exports.RootView.Props.StoryID
	if storyID == "" {
		return nil, ErrNotFound
	}
	return s.fetchPost(ctx, storyID, req)
}

// PostFromPhoto fetches the post hosting a single photo node. The owning
// user id is recovered from the photo's packed container story id.
func (s *Session) PostFromPhoto(ctx context.Context, nodeID string, req PostRequest) (*PostResult, error) {
	if nodeID == "" {
		return nil, ErrNotFound
	}
	docs, err := s.photoRoot(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	var res photoRootResponse
	if err := docs[0].decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	photo := res.Data.CurrMedia
	if photo == nil || photo.ContainerStory == nil {
		return nil, ErrNotFound
	}
	decoded, err := codec.UnpackID(photo.ContainerStory.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	parts := strings.Split(decoded, ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: malformed container story id", ErrInvalidResponse)
	}
	storyID := codec.PackID("S:" + parts[1] + ":VK:" + photo.ID)
	return s.fetchPost(ctx, storyID, req)
}

func (s *Session) fetchPost(ctx context.Context, storyID string, req PostRequest) (*PostResult, error) {
	ctx, span := tracer.Start(ctx, "fetchPost")
	defer span.End()

	docs, err := s.postDialog(ctx, storyID, req.Focus)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch post")
		return nil, err
	}
	var dialog postDialogResponse
	if err := docs[0].decode(&dialog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if dialog.Data.Node == nil {
		return nil, ErrNotFound
	}
	post, err := s.parsePost(dialog.Data.Node)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse post")
		return nil, err
	}

	result := &PostResult{
		Post:    post,
		Cursor:  req.Cursor,
		HasNext: req.Cursor != "",
	}
	if post.FeedbackID == "" {
		return result, nil
	}

	commentDocs, err := s.commentsRoot(ctx, post.FeedbackID, req.sortToken(), req.Focus)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch comments")
		return nil, err
	}
	var commentsRes commentsListResponse
	if err := commentDocs[0].decode(&commentsRes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	comments := commentsRes.Data.Node.RenderingInstance.Comments

	if req.Focus != "" {
		if len(comments.Edges) == 0 {
			return result, nil
		}
		main := comments.Edges[0].Node
		result.Comments = append(result.Comments, s.parseComment(&main))
		if result.Cursor == "" {
			replies := main.Feedback.RepliesConnection
			if replies == nil {
				return result, nil
			}
			for _, edge := range replies.Edges {
				result.Comments = append(result.Comments, s.parseComment(&edge.Node))
			}
			result.Cursor = replies.PageInfo.EndCursor
			result.HasNext = replies.PageInfo.HasNextPage
		}
		if result.HasNext {
			for range commentPageLimit {
				pageDocs, err := s.repliesPagination(
					ctx,
					main.Feedback.ID,
					main.Feedback.ExpansionInfo.ExpansionToken,
					result.Cursor,
				)
				if err != nil {
					return nil, err
				}
				var page repliesPageResponse
				if err := pageDocs[0].decode(&page); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
				}
				replies := page.Data.Node.RepliesConnection
				for _, edge := range replies.Edges {
					result.Comments = append(result.Comments, s.parseComment(&edge.Node))
				}
				result.Cursor = replies.PageInfo.EndCursor
				result.HasNext = replies.PageInfo.HasNextPage
				if !result.HasNext {
					break
				}
			}
		}
		return result, nil
	}

	if result.Cursor == "" {
		for _, edge := range comments.Edges {
			result.Comments = append(result.Comments, s.parseComment(&edge.Node))
		}
		result.Cursor = comments.PageInfo.EndCursor
		result.HasNext = comments.PageInfo.HasNextPage
	}
	if result.HasNext {
		for range commentPageLimit {
			pageDocs, err := s.commentsPagination(ctx, post.FeedbackID, result.Cursor)
			if err != nil {
				return nil, err
			}
			var page commentsListResponse
			if err := pageDocs[0].decode(&page); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
			}
			next := page.Data.Node.RenderingInstance.Comments
			for _, edge := range next.Edges {
				result.Comments = append(result.Comments, s.parseComment(&edge.Node))
			}
			result.Cursor = next.PageInfo.EndCursor
			result.HasNext = next.PageInfo.HasNextPage
			if !result.HasNext {
				break
			}
		}
	}

	return result, nil
}
