package comet

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// albums page at most this many times per fetch
const albumPageLimit = 3

// AlbumResult is a bounded window of an album's media. Items only contains
// photos and videos; other media kinds are skipped.
type AlbumResult struct {
	Title   string       `json:"title"`
	Items   []Attachment `json:"items"`
	Cursor  string       `json:"cursor,omitempty"`
	HasNext bool         `json:"has_next"`
}

// GetAlbum fetches a window of the album behind a media-set token.
func (s *Session) GetAlbum(ctx context.Context, token, startCursor string) (*AlbumResult, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	ctx, span := tracer.Start(ctx, "GetAlbum")
	defer span.End()

	docs, err := s.album(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch album")
		return nil, err
	}
	var res albumResponse
	if err := docs[0].decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	album := res.Data.Album
	if album == nil {
		return nil, ErrNotFound
	}

	result := &AlbumResult{
		Title:   album.Title.Text,
		Cursor:  startCursor,
		HasNext: startCursor != "",
	}

	var edges []mediaNode
	if result.Cursor == "" {
		for _, edge := range album.Media.Edges {
			edges = append(edges, edge.Node)
		}
		result.Cursor = album.Media.PageInfo.EndCursor
		result.HasNext = album.Media.PageInfo.HasNextPage
	}
	if result.HasNext {
		for range albumPageLimit {
			pageDocs, err := s.albumPagination(ctx, album.ID, result.Cursor)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to page album")
				return nil, err
			}
			var page albumPageResponse
			if err := pageDocs[0].decode(&page); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
			}
			for _, edge := range page.Data.Node.Media.Edges {
				edges = append(edges, edge.Node)
			}
			result.Cursor = page.Data.Node.Media.PageInfo.EndCursor
			result.HasNext = page.Data.Node.Media.PageInfo.HasNextPage
			if !result.HasNext {
				break
			}
		}
	}

	for _, node := range edges {
		switch node.TypeName {
		case "Photo":
			photo := Photo{
				ID:      node.ID,
				OwnerID: node.Owner.ID,
			}
			if node.Image != nil {
				photo.URL = node.Image.URI
			}
			result.Items = append(result.Items, photo)
		case "Video":
			// album listings never expose playback URLs, only the poster
			video := Video{
				ID:      node.ID,
				OwnerID: node.Owner.ID,
			}
			if node.Image != nil {
				video.ThumbnailURL = node.Image.URI
			}
			result.Items = append(result.Items, video)
		}
	}

	return result, nil
}
