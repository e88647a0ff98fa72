package ytdlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/pkg/logger"
	ytdlp "github.com/lrstanley/go-ytdlp"
)

// ListPlaylist flat-lists a playlist and returns its entry URLs.
func (e *Extractor) ListPlaylist(ctx context.Context, playlistURL string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.listTimeout)
	defer cancel()

	l := logger.Component("ytdlp")
	l.Debug().Str("url", playlistURL).Msg("Listing playlist")

	res, err := e.command().
		FlatPlaylist().
		Print("%(url)s").
		Run(ctx, playlistURL)

	urls, err := playlistEntries(res, err)
	if err != nil {
		l.Warn().Err(err).Str("url", playlistURL).Msg("Playlist listing failed")
		return nil, err
	}
	l.Debug().Int("count", len(urls)).Msg("Playlist listed")
	return urls, nil
}

func playlistEntries(res *ytdlp.Result, runErr error) ([]string, error) {
	if runErr != nil {
		detail := runErr.Error()
		if res != nil && strings.TrimSpace(res.Stderr) != "" {
			detail = strings.TrimSpace(res.Stderr)
		}
		return nil, fmt.Errorf("%w: %s", parsers.ErrExtraction, detail)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: no result", parsers.ErrExtraction)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("%w: exit code %d", parsers.ErrExtraction, res.ExitCode)
	}

	urls := parsers.SplitLines(res.Stdout)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: empty playlist", parsers.ErrExtraction)
	}
	return urls, nil
}
