package player

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/internal/music/session"
	"github.com/keshon/hola-music/internal/music/sources"
	"github.com/keshon/hola-music/pkg/logger"
	"github.com/rs/zerolog"
)

const (
	MinVolume = 0
	MaxVolume = 100
)

var (
	ErrNoSession       = errors.New("nothing is playing")
	ErrVolumeRange     = fmt.Errorf("volume must be between %d and %d", MinVolume, MaxVolume)
	ErrNothingResolved = errors.New("no tracks found")
)

type Resolver interface {
	Resolve(ctx context.Context, input string) ([]sources.TrackInfo, error)
}

type Streamer interface {
	Stream(ctx context.Context, locator string) (parsers.Process, error)
}

// Joiner connects the bot to a voice channel and returns a player bound to it.
type Joiner interface {
	Join(ctx context.Context, guildID, channelID string) (session.Connection, session.AudioPlayer, error)
}

type Announcer interface {
	Announce(channelID, text string)
}

type History interface {
	RecordTrack(guildID, locator string) error
}

type Deps struct {
	Store     session.Store
	Resolver  Resolver
	Streamer  Streamer
	Joiner    Joiner
	Announcer Announcer
	History   History
}

// Controller owns every transition of every guild session. Operations lock the session
// for their whole critical section; end-of-track callbacks carry the generation they were
// started with and are dropped when it no longer matches.
type Controller struct {
	store     session.Store
	resolver  Resolver
	streamer  Streamer
	joiner    Joiner
	announcer Announcer
	history   History

	ctx    context.Context
	cancel context.CancelFunc

	guildLocks sync.Map
	log        zerolog.Logger
}

func New(deps Deps) *Controller {
	if deps.Store == nil {
		deps.Store = session.NewMemoryStore()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		store:     deps.Store,
		resolver:  deps.Resolver,
		streamer:  deps.Streamer,
		joiner:    deps.Joiner,
		announcer: deps.Announcer,
		history:   deps.History,
		ctx:       ctx,
		cancel:    cancel,
		log:       logger.Component("player"),
	}
}

type EnqueueRequest struct {
	GuildID        string
	TextChannelID  string
	VoiceChannelID string
	Input          string
}

type EnqueueResult struct {
	Added   int
	Started bool
}

// Enqueue resolves req.Input and appends the result to the guild's queue, creating the
// session and joining voice when none exists. Setup failures leave no session behind.
func (c *Controller) Enqueue(ctx context.Context, req EnqueueRequest) (EnqueueResult, error) {
	tracks, err := c.resolver.Resolve(ctx, req.Input)
	if err != nil {
		return EnqueueResult{}, err
	}
	locators := sources.Locators(tracks)
	if len(locators) == 0 {
		return EnqueueResult{}, ErrNothingResolved
	}

	lock := c.guildLock(req.GuildID)
	lock.Lock()
	defer lock.Unlock()

	if sess, ok := c.store.Get(req.GuildID); ok {
		sess.Lock()
		if !sess.Closed() {
			wasEmpty := len(sess.Queue) == 0
			sess.Queue = append(sess.Queue, locators...)
			if wasEmpty {
				c.startNextLocked(sess)
			}
			sess.Unlock()
			c.log.Info().Str("guild", req.GuildID).Int("added", len(locators)).Msg("Tracks appended")
			return EnqueueResult{Added: len(locators), Started: wasEmpty}, nil
		}
		sess.Unlock()
	}

	conn, audio, err := c.joiner.Join(ctx, req.GuildID, req.VoiceChannelID)
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("join voice channel: %w", err)
	}

	sess := session.New(req.GuildID, req.TextChannelID, req.VoiceChannelID)
	sess.Connection = conn
	sess.Player = audio
	sess.Queue = locators

	stored, created := c.store.Create(sess)
	if !created {
		// guild lock makes this unreachable unless the store is shared
		c.log.Warn().Str("guild", req.GuildID).Msg("Session already exists, appending")
		stored.Lock()
		stored.Queue = append(stored.Queue, locators...)
		stored.Unlock()
		return EnqueueResult{Added: len(locators)}, nil
	}

	c.log.Info().Str("guild", req.GuildID).Str("voice", req.VoiceChannelID).Int("tracks", len(locators)).Msg("Session created")
	sess.Lock()
	c.startNextLocked(sess)
	sess.Unlock()
	return EnqueueResult{Added: len(locators), Started: true}, nil
}

// StartNext plays the head of the session's queue, or tears the session down when the
// queue is empty. Calling it on a torn down session does nothing.
func (c *Controller) StartNext(sess *session.GuildSession) {
	sess.Lock()
	defer sess.Unlock()
	if sess.Closed() {
		return
	}
	c.startNextLocked(sess)
}

func (c *Controller) startNextLocked(sess *session.GuildSession) {
	head, ok := sess.Head()
	if !ok {
		c.teardownLocked(sess)
		return
	}

	if err := sess.KillProcess(); err != nil {
		c.log.Debug().Err(err).Str("guild", sess.GuildID).Msg("Kill previous process")
	}
	sess.Generation++
	gen := sess.Generation
	sess.State = session.StateLoading

	proc, err := c.streamer.Stream(c.ctx, head)
	if err != nil {
		c.log.Error().Err(err).Str("guild", sess.GuildID).Str("track", head).Msg("Extraction failed to start")
		c.applyLocked(sess, EventErrored)
		return
	}
	sess.Process = proc

	guildID := sess.GuildID
	onEnd := func(err error) {
		ev := EventFinished
		if err != nil {
			ev = EventErrored
			c.log.Error().Err(err).Str("guild", guildID).Str("track", head).Msg("Playback failed")
		}
		c.HandleEvent(guildID, gen, ev)
	}
	if err := sess.Player.Play(proc, sess.Volume, onEnd); err != nil {
		c.log.Error().Err(err).Str("guild", sess.GuildID).Str("track", head).Msg("Player rejected resource")
		c.applyLocked(sess, EventErrored)
		return
	}

	sess.State = session.StatePlaying
	c.log.Info().Str("guild", sess.GuildID).Str("track", head).Uint64("generation", gen).Int("queued", len(sess.Queue)-1).Msg("Now playing")
	c.announce(sess, "Now playing: "+head)

	if c.history != nil {
		if err := c.history.RecordTrack(sess.GuildID, head); err != nil {
			c.log.Warn().Err(err).Str("guild", sess.GuildID).Msg("Failed to record history")
		}
	}
}

// HandleEvent applies a terminal event delivered for playback generation gen. It reports
// false when the guild has no session or the event belongs to an earlier generation.
func (c *Controller) HandleEvent(guildID string, gen uint64, ev Event) bool {
	sess, ok := c.store.Get(guildID)
	if !ok {
		return false
	}
	sess.Lock()
	defer sess.Unlock()

	if sess.Closed() || sess.Generation != gen {
		c.log.Debug().Str("guild", guildID).Uint64("event_gen", gen).Uint64("current_gen", sess.Generation).Stringer("event", ev).Msg("Stale event ignored")
		return false
	}
	c.applyLocked(sess, ev)
	return true
}

func (c *Controller) applyLocked(sess *session.GuildSession, ev Event) {
	if ev == EventErrored {
		sess.State = session.StateErrored
		if head, ok := sess.Head(); ok {
			c.announce(sess, "Could not play "+head+", skipping.")
		}
	}
	if err := sess.KillProcess(); err != nil {
		c.log.Debug().Err(err).Str("guild", sess.GuildID).Msg("Kill process")
	}

	queue, action := Transition(sess.Queue, ev)
	sess.Queue = queue
	switch action {
	case ActionStartNext:
		c.startNextLocked(sess)
	case ActionTeardown:
		c.teardownLocked(sess)
	}
}

func (c *Controller) teardownLocked(sess *session.GuildSession) {
	if sess.Closed() {
		return
	}
	sess.Close()

	if err := sess.KillProcess(); err != nil {
		c.log.Debug().Err(err).Str("guild", sess.GuildID).Msg("Kill process")
	}
	if sess.Player != nil {
		sess.Player.Stop()
	}
	if sess.Connection != nil {
		if err := sess.Connection.Destroy(); err != nil {
			c.log.Warn().Err(err).Str("guild", sess.GuildID).Msg("Failed to leave voice channel")
		}
		sess.Connection = nil
	}
	sess.Queue = nil
	sess.State = session.StateIdle

	if cur, ok := c.store.Get(sess.GuildID); ok && cur == sess {
		c.store.Remove(sess.GuildID)
	}
	c.log.Info().Str("guild", sess.GuildID).Msg("Session torn down")
}

// Teardown ends the guild's session. It is a no-op without one.
func (c *Controller) Teardown(guildID string) {
	sess, ok := c.store.Get(guildID)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	c.teardownLocked(sess)
}

// withSession runs fn under the lock of the guild's live session.
func (c *Controller) withSession(guildID string, fn func(sess *session.GuildSession) error) error {
	sess, ok := c.store.Get(guildID)
	if !ok {
		return ErrNoSession
	}
	sess.Lock()
	defer sess.Unlock()
	if sess.Closed() {
		return ErrNoSession
	}
	return fn(sess)
}

// Advance skips the current track. The next one starts, or the session ends when the queue
// runs out. It returns the locator now playing, empty after a teardown.
func (c *Controller) Advance(guildID string) (string, error) {
	var next string
	err := c.withSession(guildID, func(sess *session.GuildSession) error {
		c.applyLocked(sess, EventFinished)
		if !sess.Closed() {
			next, _ = sess.Head()
		}
		return nil
	})
	return next, err
}

// SetVolume stores the volume for resources started from now on.
func (c *Controller) SetVolume(guildID string, volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return ErrVolumeRange
	}
	return c.withSession(guildID, func(sess *session.GuildSession) error {
		sess.Volume = volume
		return nil
	})
}

func (c *Controller) Pause(guildID string) error {
	return c.withSession(guildID, func(sess *session.GuildSession) error {
		sess.Player.SetPaused(true)
		if sess.State == session.StatePlaying {
			sess.State = session.StatePaused
		}
		return nil
	})
}

func (c *Controller) Resume(guildID string) error {
	return c.withSession(guildID, func(sess *session.GuildSession) error {
		sess.Player.SetPaused(false)
		if sess.State == session.StatePaused {
			sess.State = session.StatePlaying
		}
		return nil
	})
}

// Stop ends playback and leaves the voice channel.
func (c *Controller) Stop(guildID string) error {
	return c.withSession(guildID, func(sess *session.GuildSession) error {
		c.teardownLocked(sess)
		return nil
	})
}

// Snapshot is a copy of a session's observable state.
type Snapshot struct {
	Queue      []string
	Volume     int
	State      session.State
	Generation uint64
}

func (c *Controller) Snapshot(guildID string) (Snapshot, error) {
	var snap Snapshot
	err := c.withSession(guildID, func(sess *session.GuildSession) error {
		snap = Snapshot{
			Queue:      slices.Clone(sess.Queue),
			Volume:     sess.Volume,
			State:      sess.State,
			Generation: sess.Generation,
		}
		return nil
	})
	return snap, err
}

// List returns the queue, head first.
func (c *Controller) List(guildID string) ([]string, error) {
	snap, err := c.Snapshot(guildID)
	return snap.Queue, err
}

// StopAll tears down every session and cancels in-flight extraction.
func (c *Controller) StopAll() {
	for _, sess := range c.store.All() {
		sess.Lock()
		c.teardownLocked(sess)
		sess.Unlock()
	}
	c.cancel()
}

func (c *Controller) guildLock(guildID string) *sync.Mutex {
	l, _ := c.guildLocks.LoadOrStore(guildID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

func (c *Controller) announce(sess *session.GuildSession, text string) {
	if c.announcer == nil || sess.TextChannelID == "" {
		return
	}
	c.announcer.Announce(sess.TextChannelID, text)
}
