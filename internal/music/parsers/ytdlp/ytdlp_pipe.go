package ytdlp

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/pkg/logger"
)

// Stream starts yt-dlp writing the best audio format for locator to stdout.
func (e *Extractor) Stream(ctx context.Context, locator string) (parsers.Process, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := e.command().
		Format("bestaudio").
		Output("-").
		NoPlaylist().
		NoPart().
		Quiet().
		BuildCommand(ctx, locator)

	r, w, err := os.Pipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	cmd.Stdout = w
	cmd.Stderr = logger.Component("ytdlp").With().Str("locator", locator).Logger()

	if err := cmd.Start(); err != nil {
		cancel()
		r.Close()
		w.Close()
		return nil, fmt.Errorf("%w: yt-dlp start error: %v", parsers.ErrExtraction, err)
	}
	// the child holds its own copy of the write end
	w.Close()

	p := &process{stdout: r, cancel: cancel, done: make(chan struct{})}
	p.kill = func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}

	go func() {
		err := cmd.Wait()
		if err != nil && ctx.Err() == nil {
			l := logger.Component("ytdlp")
			l.Warn().Err(err).Str("locator", locator).Msg("yt-dlp exited with error")
		}
		close(p.done)
	}()

	return p, nil
}

type process struct {
	stdout *os.File
	cancel context.CancelFunc
	kill   func()
	done   chan struct{}
	once   sync.Once
}

func (p *process) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

func (p *process) Kill() error {
	p.once.Do(func() {
		p.cancel()
		p.kill()
		p.stdout.Close()
	})
	return nil
}
