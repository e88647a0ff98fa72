// /internal/music/sources/youtube/resolver.go
package youtube

import (
	"context"
	"errors"

	"github.com/keshon/hola-music/internal/music/parsers"
)

var ErrEmptyPlaylist = errors.New("no video URLs found in the playlist")

// PlaylistLister is the part of the extraction tool the YouTube source needs.
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, playlistURL string) ([]string, error)
}

// YouTubeResolver expands playlists through the extraction tool.
type YouTubeResolver struct {
	lister PlaylistLister
}

func NewYouTubeResolver(lister PlaylistLister) *YouTubeResolver {
	return &YouTubeResolver{lister: lister}
}

// ExtractPlaylistVideos returns the playlist entry URLs in playlist order.
func (r *YouTubeResolver) ExtractPlaylistVideos(ctx context.Context, playlistURL string) ([]string, error) {
	urls, err := r.lister.ListPlaylist(ctx, playlistURL)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, errors.Join(parsers.ErrExtraction, ErrEmptyPlaylist)
	}
	return urls, nil
}
