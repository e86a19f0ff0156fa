package comet

import (
	"context"
	"fmt"
	"strings"

	"facet-backend/lib/codec"

	"go.opentelemetry.io/otel/codes"
)

const groupFeedLabel = "GroupsCometFeedRegularStories_group_group_feed"

// group feeds page at most this many times per fetch
const groupPageLimit = 4

// GetGroup fetches the header and a bounded window of discussion posts for
// a group token. An empty startCursor starts from the top.
func (s *Session) GetGroup(ctx context.Context, token, startCursor string) (*ProfileResult, error) {
	ctx, span := tracer.Start(ctx, "GetGroup")
	defer span.End()

	exports, entityType, err := s.resolveRoute(ctx, "/groups/"+token, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve route")
		return nil, err
	}
	if exports == nil || entityType != entityGroup {
		return nil, ErrNotFound
	}
	groupID := exports.RootView.Props.GroupID

	headerDocs, err := s.groupRoot(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch group header")
		return nil, err
	}
	var headerRes groupRootResponse
	if err := headerDocs[0].decode(&headerRes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if headerRes.Data.Group == nil {
		return nil, fmt.Errorf("%w: group header missing group", ErrInvalidResponse)
	}
	header := headerRes.Data.Group.ProfileHeaderRenderer.Group

	layoutDocs, err := s.groupLayout(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch group layout")
		return nil, err
	}
	var layoutRes groupLayoutResponse
	if err := layoutDocs[len(layoutDocs)-1].decode(&layoutRes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(layoutRes.Data.DiscussionTabCards) == 0 {
		return nil, fmt.Errorf("%w: group layout missing side panel", ErrInvalidResponse)
	}
	panel := layoutRes.Data.DiscussionTabCards[0].Group

	feedDocs, err := s.groupFeed(ctx, groupID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch group feed")
		return nil, err
	}

	members, _, _ := strings.Cut(header.MemberProfiles.FormattedCountText, " ")
	result := &ProfileResult{
		Feed: Feed{
			ID:          groupID,
			Token:       codec.URLBasename(header.URL),
			Name:        header.Name,
			Description: panel.Description.Text,
			Members:     members,
			IsGroup:     true,
			IsPrivate:   panel.PrivacyInfo.Label.Text == "Private",
		},
		Cursor:  startCursor,
		HasNext: startCursor != "",
	}
	if cover := header.CoverRenderer.CoverPhotoContent; cover != nil {
		result.Feed.CoverURL = cover.Photo.Image.URI
	}
	if len(panel.Locations) > 0 {
		names := make([]string, len(panel.Locations))
		for i, location := range panel.Locations {
			names[i] = location.Name
		}
		result.Feed.Info = []InfoItem{{
			Type: "location",
			Text: strings.Join(names, ", "),
		}}
	}

	if result.Cursor == "" {
		// the first post of a group feed rides in the second document
		if len(feedDocs) > 1 {
			var deferred deferredDoc
			if err := feedDocs[1].decode(&deferred); err == nil && deferred.Data.Node != nil {
				post, err := s.parsePost(deferred.Data.Node)
				if err != nil {
					return nil, err
				}
				result.Posts = append(result.Posts, post)
			}
		}
		found := false
		for _, doc := range feedDocs[1:] {
			var deferred deferredDoc
			if err := doc.decode(&deferred); err != nil {
				continue
			}
			if deferred.Data.PageInfo != nil {
				result.Cursor = deferred.Data.PageInfo.EndCursor
				result.HasNext = deferred.Data.PageInfo.HasNextPage
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: group feed missing page info", ErrInvalidResponse)
		}
	}

	if result.HasNext {
		for range groupPageLimit {
			docs, err := s.groupFeedRefetch(ctx, groupID, result.Cursor)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to page group feed")
				return nil, err
			}
			var page groupRefetchResponse
			if err := docs[0].decode(&page); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
			}
			rest, err := deferredByLabel(docs[1:], groupFeedLabel)
			if err != nil {
				return nil, err
			}
			if len(rest) == 0 {
				return nil, fmt.Errorf("%w: group feed page missing fragments", ErrInvalidResponse)
			}

			if feed := page.Data.Node.GroupFeed; feed != nil && len(feed.Edges) > 0 {
				post, err := s.parsePost(feed.Edges[0].Node)
				if err != nil {
					return nil, err
				}
				result.Posts = append(result.Posts, post)
			}
			for _, deferred := range rest[:len(rest)-1] {
				if deferred.Data.Node == nil {
					continue
				}
				post, err := s.parsePost(deferred.Data.Node)
				if err != nil {
					return nil, err
				}
				result.Posts = append(result.Posts, post)
			}
			last := rest[len(rest)-1]
			if last.Data.PageInfo == nil {
				return nil, fmt.Errorf("%w: group feed page missing page info", ErrInvalidResponse)
			}
			result.Cursor = last.Data.PageInfo.EndCursor
			result.HasNext = last.Data.PageInfo.HasNextPage
			if !result.HasNext {
				break
			}
		}
	}

	return result, nil
}
