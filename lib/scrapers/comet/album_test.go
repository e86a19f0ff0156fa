package comet

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func albumMediaEdges(photos, videos, unknown int) string {
	var edges []string
	i := 0
	for range photos {
		edges = append(edges, fmt.Sprintf(
			`{"node":{"__typename":"Photo","id":"m%d","image":{"uri":"u%d"},"owner":{"id":"o"}}}`, i, i))
		i++
	}
	for range videos {
		edges = append(edges, fmt.Sprintf(
			`{"node":{"__typename":"Video","id":"m%d","image":{"uri":"u%d"},"owner":{"id":"o"}}}`, i, i))
		i++
	}
	for range unknown {
		edges = append(edges, fmt.Sprintf(`{"node":{"__typename":"GenericAlbumEntry","id":"m%d"}}`, i))
		i++
	}
	return strings.Join(edges, ",")
}

func albumFixture(edges, cursor string, hasNext bool) string {
	return fmt.Sprintf(`{"data":{"album":{"id":"a1","title":{"text":"Holiday"},"media":{"edges":[%s],"page_info":{"end_cursor":"%s","has_next_page":%t}}}}}`, edges, cursor, hasNext)
}

func TestGetAlbumSkipsUnknownMedia(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opAlbum, albumFixture(albumMediaEdges(10, 2, 2), "", false))
	session := newTestSession(t, upstream)

	result, err := session.GetAlbum(context.Background(), "a.12345", "")
	require.NoError(t, err)

	require.Equal(t, "Holiday", result.Title)
	// 14 edges, 2 of an unrecognized kind: only the 12 usable ones land
	require.Len(t, result.Items, 12)
	require.False(t, result.HasNext)

	require.IsType(t, Photo{}, result.Items[0])
	video := result.Items[10].(Video)
	require.Equal(t, "u10", video.ThumbnailURL)
	require.Equal(t, "", video.URL)
}

func TestGetAlbumPaginationBound(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opAlbum, albumFixture(albumMediaEdges(2, 0, 0), "a0", true))
	upstream.query(opAlbumPagination, fmt.Sprintf(
		`{"data":{"node":{"media":{"edges":[%s],"page_info":{"end_cursor":"a1","has_next_page":true}}}}}`,
		albumMediaEdges(1, 0, 0),
	))
	session := newTestSession(t, upstream)

	result, err := session.GetAlbum(context.Background(), "a.12345", "")
	require.NoError(t, err)

	require.Equal(t, albumPageLimit, upstream.hitCount(DefaultTables().DocIDs[opAlbumPagination]))
	require.Len(t, result.Items, 2+albumPageLimit)
	require.Equal(t, "a1", result.Cursor)
	require.True(t, result.HasNext)
}

func TestGetAlbumMissing(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.query(opAlbum, `{"data":{"album":null}}`)
	session := newTestSession(t, upstream)

	_, err := session.GetAlbum(context.Background(), "a.12345", "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = session.GetAlbum(context.Background(), "", "")
	require.ErrorIs(t, err, ErrNotFound)
}
