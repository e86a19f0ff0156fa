package comet

import (
	"context"
	"fmt"

	"facet-backend/lib/codec"

	"go.opentelemetry.io/otel/codes"
)

// searches page at most this many times per fetch
const searchPageLimit = 3

// SearchEntry is one search hit: either an account or a post, never both.
type SearchEntry struct {
	User *User `json:"user,omitempty"`
	Post *Post `json:"post,omitempty"`
}

// SearchResult is a bounded window of search hits.
type SearchResult struct {
	Results []SearchEntry `json:"results"`
	Cursor  string        `json:"cursor,omitempty"`
	HasNext bool          `json:"has_next"`
}

// Search runs a query against the given result category: "posts",
// "recent_posts", "people", or pages for anything else. An empty query
// returns an empty result without touching the upstream.
func (s *Session) Search(ctx context.Context, query, category, startCursor string) (*SearchResult, error) {
	result := &SearchResult{
		Cursor:  startCursor,
		HasNext: startCursor != "",
	}
	if query == "" {
		return result, nil
	}
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	var filters []string
	surface := "PAGES_TAB"
	switch category {
	case "posts":
		surface = "POSTS_TAB"
	case "recent_posts":
		surface = "POSTS_TAB"
		filters = append(filters, `{"name":"recent_posts","args":""}`)
	case "people":
		surface = "PEOPLE_TAB"
	}

	for range searchPageLimit {
		docs, err := s.search(ctx, query, surface, result.Cursor, filters)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch search results")
			return nil, err
		}
		var res searchResponse
		if err := docs[0].decode(&res); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		results := res.Data.SerpResponse.Results

		for _, edge := range results.Edges {
			switch edge.Node.Role {
			case "ENTITY_PAGES", "ENTITY_USER":
				profile := edge.RenderingStrategy.ViewModel.Profile
				if profile == nil {
					return nil, fmt.Errorf("%w: search hit missing profile", ErrInvalidResponse)
				}
				username := profile.ID
				if profile.URL != "" {
					username = codec.URLBasename(profile.URL)
				}
				user := &User{
					ID:         profile.ID,
					Username:   username,
					Name:       profile.Name,
					PictureURL: profile.ProfilePicture.URI,
					Verified:   profile.IsVerified,
				}
				if snippets := edge.RenderingStrategy.ViewModel.DescriptionSnippets; len(snippets) > 0 {
					user.Description = snippets[0].Text
				}
				result.Results = append(result.Results, SearchEntry{User: user})
			case "TOP_PUBLIC_POSTS":
				view := edge.RenderingStrategy.ViewModel
				story := view.Story
				if view.ClickModel != nil {
					story = view.ClickModel.Story
				}
				if story == nil {
					return nil, fmt.Errorf("%w: search hit missing story", ErrInvalidResponse)
				}
				post, err := s.parsePost(story)
				if err != nil {
					return nil, err
				}
				result.Results = append(result.Results, SearchEntry{Post: &post})
			case "END_OF_RESULTS_INDICATOR":
				// terminal marker, carries no content
			default:
				return nil, fmt.Errorf("%w: unknown search result role %q", ErrInvalidResponse, edge.Node.Role)
			}
		}

		result.Cursor = results.PageInfo.EndCursor
		result.HasNext = results.PageInfo.HasNextPage
		if !result.HasNext {
			break
		}
	}

	return result, nil
}
