package player

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/internal/music/session"
	"github.com/keshon/hola-music/internal/music/sources"
)

type fakeProcess struct {
	locator string
	mu      sync.Mutex
	killed  bool
}

func (p *fakeProcess) Read([]byte) (int, error) { return 0, io.EOF }

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	return nil
}

func (p *fakeProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

type fakeStreamer struct {
	mu        sync.Mutex
	failOn    map[string]bool
	started   []string
	processes []*fakeProcess
}

func (s *fakeStreamer) Stream(ctx context.Context, locator string) (parsers.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, locator)
	if s.failOn[locator] {
		return nil, parsers.ErrExtraction
	}
	p := &fakeProcess{locator: locator}
	s.processes = append(s.processes, p)
	return p, nil
}

func (s *fakeStreamer) Started() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.started...)
}

type play struct {
	src    io.Reader
	volume int
	onEnd  func(error)
}

type fakePlayer struct {
	mu      sync.Mutex
	plays   []play
	paused  bool
	stopped int
}

func (p *fakePlayer) Play(src io.Reader, volume int, onEnd func(error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays = append(p.plays, play{src: src, volume: volume, onEnd: onEnd})
	return nil
}

func (p *fakePlayer) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = paused
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped++
}

func (p *fakePlayer) Plays() []play {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]play(nil), p.plays...)
}

// end fires the end-of-track callback of the i-th resource.
func (p *fakePlayer) end(i int, err error) {
	p.Plays()[i].onEnd(err)
}

type fakeConn struct {
	mu        sync.Mutex
	destroyed int
}

func (c *fakeConn) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed++
	return nil
}

type fakeJoiner struct {
	err    error
	conn   *fakeConn
	player *fakePlayer
	joins  int
}

func (j *fakeJoiner) Join(ctx context.Context, guildID, channelID string) (session.Connection, session.AudioPlayer, error) {
	j.joins++
	if j.err != nil {
		return nil, nil, j.err
	}
	j.conn = &fakeConn{}
	j.player = &fakePlayer{}
	return j.conn, j.player, nil
}

type fakeAnnouncer struct {
	mu   sync.Mutex
	msgs []string
}

func (a *fakeAnnouncer) Announce(channelID, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, text)
}

type fakeHistory struct {
	tracks []string
}

func (h *fakeHistory) RecordTrack(guildID, locator string) error {
	h.tracks = append(h.tracks, locator)
	return nil
}

// mapResolver returns the configured locators for an input.
type mapResolver map[string][]string

func (r mapResolver) Resolve(ctx context.Context, input string) ([]sources.TrackInfo, error) {
	locs, ok := r[input]
	if !ok {
		return nil, errors.New("unresolvable")
	}
	out := make([]sources.TrackInfo, 0, len(locs))
	for _, l := range locs {
		out = append(out, sources.TrackInfo{Locator: l})
	}
	return out, nil
}
