package comet

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"facet-backend/lib/codec"

	"go.opentelemetry.io/otel/codes"
)

const (
	timelineFeedLabel = "ProfileCometTimelineFeed_user"
	linkShimPrefix    = "https://l.facebook.com/l.php"
)

// profile timelines page at most this many times per fetch
const profilePageLimit = 3

// ProfileResult is one page-bounded snapshot of a profile: its header feed
// plus as many timeline posts as the page limit allowed.
type ProfileResult struct {
	Feed    Feed   `json:"feed"`
	Posts   []Post `json:"posts"`
	Cursor  string `json:"cursor,omitempty"`
	HasNext bool   `json:"has_next"`
}

// deferredByLabel picks the deferred documents whose label belongs to the
// given feed family, decoded. The last one carries the authoritative page
// info for the batch.
func deferredByLabel(docs []document, label string) ([]deferredDoc, error) {
	var out []deferredDoc
	for _, doc := range docs {
		if !strings.Contains(doc.label, label) {
			continue
		}
		var decoded deferredDoc
		if err := doc.decode(&decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		out = append(out, decoded)
	}
	return out, nil
}

// GetProfile fetches the header and a bounded window of timeline posts for
// a username or page token. An empty startCursor starts from the top.
func (s *Session) GetProfile(ctx context.Context, username, startCursor string) (*ProfileResult, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	exports, entityType, err := s.resolveRoute(ctx, "/"+username, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve route")
		return nil, err
	}
	if exports == nil || entityType != entityProfile {
		return nil, ErrNotFound
	}
	userID := exports.RootView.Props.UserID

	headerDocs, err := s.profileHeader(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch profile header")
		return nil, err
	}
	var headerRes profileHeaderResponse
	if err := headerDocs[0].decode(&headerRes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if headerRes.Data.User == nil {
		return nil, fmt.Errorf("%w: profile header missing user", ErrInvalidResponse)
	}
	header := headerRes.Data.User.ProfileHeaderRenderer.User

	tileDocs, err := s.profileAbout(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch profile tiles")
		return nil, err
	}
	var tilesRes profileTilesResponse
	if err := tileDocs[len(tileDocs)-1].decode(&tilesRes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	feedDocs, err := s.profileTimeline(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch timeline")
		return nil, err
	}

	token := userID
	if !strings.HasPrefix(header.URL, peopleURLPrefix) {
		token = codec.URLBasename(header.URL)
	}
	result := &ProfileResult{
		Feed: Feed{
			ID:       userID,
			Token:    token,
			Name:     header.Name,
			Verified: header.ShowVerifiedBadge,
		},
		Cursor:  startCursor,
		HasNext: startCursor != "",
	}
	if private := header.PrivateSharingBundle.ControlModel; private != nil {
		result.Feed.IsPrivate = private.PrivateSharingEnabled
	}
	if header.ProfilePicLarge != nil {
		result.Feed.PictureURL = header.ProfilePicLarge.URI
	}
	if header.CoverPhoto != nil {
		result.Feed.CoverURL = header.CoverPhoto.Photo.Image.URI
	}
	if header.SocialContext != nil {
		for _, entry := range header.SocialContext.Content {
			text := entry.Text.Text
			count, _, _ := strings.Cut(text, " ")
			switch {
			case strings.Contains(text, "followers"):
				result.Feed.Followers = count
			case strings.Contains(text, "following"):
				result.Feed.Following = count
			case strings.Contains(text, "likes"):
				result.Feed.Likes = count
			}
		}
	}

	var head timelineHeadResponse
	if err := feedDocs[0].decode(&head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if page := head.Data.User.DelegatePage; page != nil && page.BestDescription != nil {
		result.Feed.Description = page.BestDescription.Text
	}

	if edges := tilesRes.Data.ProfileTileSections.Edges; len(edges) > 0 {
		result.Feed.Info = s.parseIntroTiles(edges[0].Node)
	}

	if result.Cursor == "" {
		if units := head.Data.User.TimelineUnits; units != nil && len(units.Edges) > 0 {
			post, err := s.parsePost(units.Edges[0].Node)
			if err != nil {
				return nil, err
			}
			result.Posts = append(result.Posts, post)
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
			return nil, fmt.Errorf("%w: timeline missing page info", ErrInvalidResponse)
		}
	}

	if result.HasNext {
		for range profilePageLimit {
			docs, err := s.profileTimelineRefetch(ctx, userID, result.Cursor)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to page timeline")
				return nil, err
			}
			var page timelineRefetchResponse
			if err := docs[0].decode(&page); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
			}
			rest, err := deferredByLabel(docs[1:], timelineFeedLabel)
			if err != nil {
				return nil, err
			}
			if len(rest) == 0 {
				return nil, fmt.Errorf("%w: timeline page missing fragments", ErrInvalidResponse)
			}

			if units := page.Data.Node.TimelineUnits; units != nil && len(units.Edges) > 0 {
				post, err := s.parsePost(units.Edges[0].Node)
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
				return nil, fmt.Errorf("%w: timeline page missing page info", ErrInvalidResponse)
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

// parseIntroTiles flattens the intro panel of a profile into info items.
// The second tile view of the INTRO section holds the item list; link
// targets wrapped in the upstream's interstitial shim are unwrapped back to
// their real destination.
func (s *Session) parseIntroTiles(section tileSection) []InfoItem {
	if section.SectionType != "INTRO" {
		return nil
	}
	views := section.Views.Nodes
	if len(views) < 2 || views[1].ViewStyleRenderer == nil {
		return nil
	}

	var items []InfoItem
	for _, node := range views[1].ViewStyleRenderer.View.ProfileTileItems.Nodes {
		contextItem := node.Node.TimelineContextItem
		if contextItem.Renderer == nil {
			continue
		}
		item := InfoItem{
			Text: contextItem.Renderer.ContextItem.Title.Text,
			Type: strings.ToLower(strings.TrimPrefix(contextItem.ListItemType, "INTRO_CARD_")),
		}
		if subtitle := contextItem.Renderer.ContextItem.Subtitle; subtitle != nil {
			item.Text += " " + subtitle.Text
		}
		if ranges := contextItem.Renderer.ContextItem.Title.Ranges; len(ranges) > 0 {
			item.URL = unwrapLinkShim(ranges[0].Entity.URL)
		}
		items = append(items, item)
	}
	return items
}

func unwrapLinkShim(raw string) string {
	if !strings.HasPrefix(raw, linkShimPrefix) {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if target := parsed.Query().Get("u"); target != "" {
		return target
	}
	return raw
}
