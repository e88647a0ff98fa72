package stream

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/jonas747/dca"
	"github.com/keshon/hola-music/pkg/logger"
)

type playback struct {
	enc     *dca.EncodeSession
	stream  *dca.StreamingSession
	stopped bool
}

// DiscordPlayer encodes a raw audio stream to opus and sends it over one voice connection.
type DiscordPlayer struct {
	vc *discordgo.VoiceConnection

	mu      sync.Mutex
	current *playback
}

func NewDiscordPlayer(vc *discordgo.VoiceConnection) *DiscordPlayer {
	return &DiscordPlayer{vc: vc}
}

// Play replaces whatever is playing with src. onEnd runs on a separate goroutine once src
// drains (nil) or the stream fails; it does not run for resources dropped by Stop or a
// later Play.
func (p *DiscordPlayer) Play(src io.Reader, volume int, onEnd func(error)) error {
	p.Stop()

	enc, err := dca.EncodeMem(src, EncodeOptions(volume))
	if err != nil {
		return fmt.Errorf("start encoder: %w", err)
	}

	l := logger.Component("player")
	if err := p.vc.Speaking(true); err != nil {
		l.Warn().Err(err).Msg("Failed to set speaking state")
	}

	done := make(chan error, 1)
	pb := &playback{enc: enc}
	pb.stream = dca.NewStream(enc, p.vc, done)

	p.mu.Lock()
	p.current = pb
	p.mu.Unlock()

	go p.wait(pb, done, onEnd)
	return nil
}

func (p *DiscordPlayer) wait(pb *playback, done <-chan error, onEnd func(error)) {
	err := <-done
	pb.enc.Cleanup()

	p.mu.Lock()
	stopped := pb.stopped
	if p.current == pb {
		p.current = nil
		_ = p.vc.Speaking(false)
	}
	p.mu.Unlock()

	if stopped || onEnd == nil {
		return
	}
	if err == nil || errors.Is(err, io.EOF) {
		onEnd(nil)
		return
	}
	onEnd(fmt.Errorf("voice stream: %w", err))
}

func (p *DiscordPlayer) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return
	}
	p.current.stream.SetPaused(paused)
}

// Stop drops the current resource and kills its encoder.
func (p *DiscordPlayer) Stop() {
	p.mu.Lock()
	pb := p.current
	p.current = nil
	if pb != nil {
		pb.stopped = true
	}
	p.mu.Unlock()

	if pb == nil {
		return
	}
	// a paused stream goroutine has exited and would never observe the encoder ending
	if pb.stream.Paused() {
		pb.stream.SetPaused(false)
	}
	pb.enc.Cleanup()
}
