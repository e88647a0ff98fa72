package youtube

import (
	"context"
	"errors"
	"strings"

	"github.com/keshon/hola-music/internal/music/sources"
	"github.com/keshon/hola-music/pkg/logger"
)

const SourceYouTube string = sources.SourceYouTube

var ErrInvalidURL = errors.New("invalid YouTube URL format")

type YouTubeSource struct {
	resolver *YouTubeResolver
}

func New(lister PlaylistLister) *YouTubeSource {
	return &YouTubeSource{
		resolver: NewYouTubeResolver(lister),
	}
}

func (y *YouTubeSource) Match(input string) bool {
	return isYouTubeURL(strings.TrimSpace(input))
}

func (y *YouTubeSource) Resolve(ctx context.Context, input string) ([]sources.TrackInfo, error) {
	input = strings.TrimSpace(input)

	// direct video URL
	if isYouTubeVideoURL(input) {
		return []sources.TrackInfo{
			{
				Locator:    CleanVideoURL(input),
				SourceName: SourceYouTube,
			},
		}, nil
	}

	if !isYouTubePlaylistURL(input) {
		return nil, ErrInvalidURL
	}

	urls, err := y.resolver.ExtractPlaylistVideos(ctx, input)
	if err != nil {
		return nil, err
	}

	l := logger.Component("resolver")
	l.Info().Str("url", input).Int("count", len(urls)).Msg("Playlist expanded")

	tracks := make([]sources.TrackInfo, 0, len(urls))
	for _, u := range urls {
		tracks = append(tracks, sources.TrackInfo{
			Locator:    u,
			SourceName: SourceYouTube,
		})
	}
	return tracks, nil
}

func (y *YouTubeSource) SourceName() string {
	return SourceYouTube
}
