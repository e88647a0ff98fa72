package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/internal/music/sources"
	"github.com/keshon/hola-music/pkg/logger"
	zspotify "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	SourceSpotify = sources.SourceSpotify

	playlistPageSize = 100
	albumPageSize    = 50
	requestTimeout   = 10 * time.Second
)

var (
	ErrCatalogAuth     = errors.New("catalog credentials unavailable")
	ErrUnsupportedLink = errors.New("unsupported catalog link")
	ErrCatalogAPI      = errors.New("catalog API error")
)

// SpotifySource expands catalog links into search locators.
type SpotifySource struct {
	tokens *TokenCache
	client *zspotify.Client
}

// New returns a source. A nil tokens cache means the integration is not configured and
// every catalog link fails with ErrCatalogAuth.
func New(tokens *TokenCache, apiURL string) *SpotifySource {
	s := &SpotifySource{tokens: tokens}
	if tokens == nil {
		return s
	}

	httpClient := &http.Client{
		Timeout: requestTimeout,
		Transport: &oauth2.Transport{
			Source: tokens,
			Base:   http.DefaultTransport,
		},
	}

	var opts []zspotify.ClientOption
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		opts = append(opts, zspotify.WithBaseURL(apiURL))
	}
	s.client = zspotify.New(httpClient, opts...)
	return s
}

func (s *SpotifySource) Match(input string) bool {
	return isSpotifyURL(input)
}

func (s *SpotifySource) SourceName() string {
	return SourceSpotify
}

func (s *SpotifySource) Resolve(ctx context.Context, input string) ([]sources.TrackInfo, error) {
	kind, id, err := classifyLink(input)
	if err != nil {
		return nil, err
	}

	if s.tokens == nil || !s.tokens.Ready() {
		return nil, ErrCatalogAuth
	}

	var queries []string
	switch kind {
	case linkTrack:
		track, err := s.client.GetTrack(ctx, zspotify.ID(id))
		if err != nil {
			return nil, apiError(err)
		}
		queries = append(queries, searchQuery(track.Artists, track.Name))

	case linkPlaylist:
		page, err := s.client.GetPlaylistItems(ctx, zspotify.ID(id), zspotify.Limit(playlistPageSize))
		if err != nil {
			return nil, apiError(err)
		}
		for _, item := range page.Items {
			t := item.Track.Track
			if t == nil || t.Name == "" {
				continue
			}
			queries = append(queries, searchQuery(t.Artists, t.Name))
		}

	case linkAlbum:
		page, err := s.client.GetAlbumTracks(ctx, zspotify.ID(id), zspotify.Limit(albumPageSize))
		if err != nil {
			return nil, apiError(err)
		}
		for _, t := range page.Tracks {
			queries = append(queries, searchQuery(t.Artists, t.Name))
		}
	}

	l := logger.Component("resolver")
	l.Info().Str("kind", string(kind)).Str("id", id).Int("count", len(queries)).Msg("Catalog link resolved")

	tracks := make([]sources.TrackInfo, 0, len(queries))
	for _, q := range queries {
		tracks = append(tracks, sources.TrackInfo{
			Locator:    parsers.SearchLocator(q),
			Title:      q,
			SourceName: SourceSpotify,
		})
	}
	return tracks, nil
}

func apiError(err error) error {
	if errors.Is(err, ErrCatalogAuth) {
		return err
	}
	return fmt.Errorf("%w: %s", ErrCatalogAPI, err.Error())
}
