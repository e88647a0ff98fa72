package ytdlp

import (
	"context"
	"time"

	"github.com/keshon/hola-music/pkg/logger"
	ytdlp "github.com/lrstanley/go-ytdlp"
)

const defaultListTimeout = 60 * time.Second

// Extractor runs yt-dlp for playlist listing and audio streaming.
type Extractor struct {
	executable  string
	listTimeout time.Duration
}

// New returns an Extractor. An empty executable lets go-ytdlp resolve the binary itself.
func New(executable string) *Extractor {
	return &Extractor{
		executable:  executable,
		listTimeout: defaultListTimeout,
	}
}

func (e *Extractor) command() *ytdlp.Command {
	cmd := ytdlp.New().
		NoWarnings().
		IgnoreConfig()
	if e.executable != "" {
		cmd.SetExecutable(e.executable)
	}
	return cmd
}

// Install resolves a yt-dlp binary, downloading it into the go-ytdlp cache when none is found.
// It returns the executable path.
func Install(ctx context.Context) (string, error) {
	l := logger.Component("ytdlp")
	l.Info().Msg("Resolving yt-dlp binary")

	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", err
	}
	l.Info().Str("path", resolved.Executable).Str("version", resolved.Version).Msg("yt-dlp ready")
	return resolved.Executable, nil
}
