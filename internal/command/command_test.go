package command

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/internal/music/player"
	"github.com/keshon/hola-music/internal/music/source_resolver"
	"github.com/keshon/hola-music/internal/music/sources/spotify"
	"github.com/keshon/hola-music/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	enqueued  []player.EnqueueRequest
	enqResult player.EnqueueResult
	enqErr    error
	err       error
	volume    int
	next      string
	queue     []string
	calls     []string
}

func (f *fakePlayer) Enqueue(ctx context.Context, req player.EnqueueRequest) (player.EnqueueResult, error) {
	f.enqueued = append(f.enqueued, req)
	return f.enqResult, f.enqErr
}

func (f *fakePlayer) Advance(guildID string) (string, error) {
	f.calls = append(f.calls, "advance")
	return f.next, f.err
}

func (f *fakePlayer) SetVolume(guildID string, volume int) error {
	if volume < 0 || volume > 100 {
		return player.ErrVolumeRange
	}
	if f.err != nil {
		return f.err
	}
	f.volume = volume
	return nil
}

func (f *fakePlayer) Pause(guildID string) error  { f.calls = append(f.calls, "pause"); return f.err }
func (f *fakePlayer) Resume(guildID string) error { f.calls = append(f.calls, "resume"); return f.err }
func (f *fakePlayer) Stop(guildID string) error   { f.calls = append(f.calls, "stop"); return f.err }
func (f *fakePlayer) List(guildID string) ([]string, error) {
	return f.queue, f.err
}

type fakeHistory struct {
	tracks []storage.TrackHistoryRecord
}

func (f *fakeHistory) FetchTrackHistory(guildID string) ([]storage.TrackHistoryRecord, error) {
	return f.tracks, nil
}

type fakeRecorder struct {
	records []storage.CommandHistoryRecord
}

func (f *fakeRecorder) AppendCommandToHistory(guildID string, rec storage.CommandHistoryRecord) error {
	f.records = append(f.records, rec)
	return nil
}

type env struct {
	player   *fakePlayer
	recorder *fakeRecorder
	d        *Dispatcher
	shutdown int
}

func newEnv() *env {
	e := &env{player: &fakePlayer{}, recorder: &fakeRecorder{}}
	e.d = NewMusicDispatcher(Deps{
		Player:   e.player,
		History:  &fakeHistory{tracks: []storage.TrackHistoryRecord{{Locator: "old", PlayedAt: time.Now()}, {Locator: "new", PlayedAt: time.Now()}}},
		Recorder: e.recorder,
		Limiter:  NewUserLimiter(1000, 1000),
		Shutdown: func() { e.shutdown++ },
		Prefix:   "!",
	})
	return e
}

// send dispatches content as a guild message and returns the replies.
func (e *env) send(content, voice string) ([]string, bool) {
	var replies []string
	ctx := &MessageContext{
		GuildID:        "g1",
		ChannelID:      "text",
		AuthorID:       "u1",
		AuthorName:     "alice",
		VoiceChannelID: voice,
		Reply: func(text string) error {
			replies = append(replies, text)
			return nil
		},
	}
	ok := e.d.Dispatch(ctx, content)
	return replies, ok
}

func TestMatch(t *testing.T) {
	e := newEnv()
	tests := []struct {
		in   string
		name string
		args string
		ok   bool
	}{
		{"!hola", "hola", "", true},
		{"  !pause ", "pause", "", true},
		{"!play", "play", "", true},
		{"!volume 40", "volume", "40", true},
		{"!volume", "volume", "", true},
		{"!stop now", "", "", false},
		{"!unknown", "", "", false},
		{"hola", "", "", false},
		{"", "", "", false},
		{"https://youtu.be/abc", "link", "https://youtu.be/abc", true},
		{"https://open.spotify.com/track/1", "link", "https://open.spotify.com/track/1", true},
		{"https://music.youtube.com/watch?v=x", "link", "https://music.youtube.com/watch?v=x", true},
		{"https://example.com/a", "", "", false},
	}
	for _, tt := range tests {
		cmd, args, ok := e.d.Match(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		if !ok {
			continue
		}
		assert.Equal(t, tt.name, cmd.Name(), tt.in)
		assert.Equal(t, tt.args, args, tt.in)
	}
}

func TestLinkRequiresVoice(t *testing.T) {
	e := newEnv()

	replies, ok := e.send("https://youtu.be/abc", "")
	require.True(t, ok)
	assert.Equal(t, []string{"You have to be in a voice channel for me to play music!"}, replies)
	assert.Empty(t, e.player.enqueued)
}

func TestLinkEnqueues(t *testing.T) {
	e := newEnv()
	e.player.enqResult = player.EnqueueResult{Added: 1, Started: true}

	replies, _ := e.send("https://youtu.be/abc", "voice")
	assert.Empty(t, replies)
	require.Len(t, e.player.enqueued, 1)
	assert.Equal(t, player.EnqueueRequest{
		GuildID:        "g1",
		TextChannelID:  "text",
		VoiceChannelID: "voice",
		Input:          "https://youtu.be/abc",
	}, e.player.enqueued[0])

	e.player.enqResult = player.EnqueueResult{Added: 3}
	replies, _ = e.send("https://open.spotify.com/playlist/x", "voice")
	assert.Equal(t, []string{"🎶 Added 3 tracks to the queue."}, replies)
}

func TestLinkErrorsReported(t *testing.T) {
	e := newEnv()
	e.player.enqErr = fmt.Errorf("%w: Invalid playlist Id", spotify.ErrCatalogAPI)

	replies, _ := e.send("https://open.spotify.com/playlist/x", "voice")
	assert.Equal(t, []string{"Spotify returned an error: Invalid playlist Id"}, replies)
}

func TestControlsWithoutSession(t *testing.T) {
	e := newEnv()
	e.player.err = player.ErrNoSession

	for _, in := range []string{"!pause", "!play", "!stop", "!next", "!list", "!volume 20"} {
		replies, ok := e.send(in, "")
		require.True(t, ok, in)
		assert.Equal(t, []string{"Nothing is playing."}, replies, in)
	}
}

func TestVolume(t *testing.T) {
	e := newEnv()

	replies, _ := e.send("!volume 40", "")
	assert.Equal(t, []string{"🔊 Volume set to 40%, starting with the next track."}, replies)
	assert.Equal(t, 40, e.player.volume)

	for _, in := range []string{"!volume 101", "!volume -1", "!volume loud", "!volume"} {
		replies, _ = e.send(in, "")
		assert.Equal(t, []string{"Volume must be a number between 0 and 100."}, replies, in)
	}
	assert.Equal(t, 40, e.player.volume)
}

func TestListAndNext(t *testing.T) {
	e := newEnv()
	e.player.queue = []string{"a", "b"}

	replies, _ := e.send("!list", "")
	assert.Equal(t, []string{"🎶 Queue (2 tracks):\n▶️ a\n1. b"}, replies)

	e.player.next = "b"
	replies, _ = e.send("!next", "")
	assert.Equal(t, []string{"⏭ Skipped."}, replies)

	e.player.next = ""
	replies, _ = e.send("!next", "")
	assert.Equal(t, []string{"⏭ That was the last track, see you!"}, replies)
}

func TestHolaHistoryHelp(t *testing.T) {
	e := newEnv()

	replies, _ := e.send("!hola", "")
	assert.Equal(t, []string{"Qué pasa bro 👋"}, replies)

	replies, _ = e.send("!history", "")
	require.Len(t, replies, 1)
	assert.Regexp(t, `(?s)Recently played:\n.*new\n.*old$`, replies[0])

	replies, _ = e.send("!help", "")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "`!volume <0-100>`")
	assert.Contains(t, replies[0], "`!hola`")
}

func TestShutdown(t *testing.T) {
	e := newEnv()

	replies, _ := e.send("!shutdown", "")
	assert.Equal(t, []string{"Shutting down, bye 👋"}, replies)
	assert.Equal(t, 1, e.shutdown)
}

func TestCommandHistoryRecorded(t *testing.T) {
	e := newEnv()
	e.send("!volume 30", "")

	require.Len(t, e.recorder.records, 1)
	assert.Equal(t, "volume", e.recorder.records[0].Command)
	assert.Equal(t, "30", e.recorder.records[0].Param)
	assert.Equal(t, "u1", e.recorder.records[0].UserID)
}

func TestGuildOnly(t *testing.T) {
	e := newEnv()
	var replies []string
	ctx := &MessageContext{Reply: func(s string) error { replies = append(replies, s); return nil }}

	assert.True(t, e.d.Dispatch(ctx, "!hola"))
	assert.Empty(t, replies)
	assert.Empty(t, e.recorder.records)
}

func TestRateLimit(t *testing.T) {
	var replies []string
	reply := func(s string) error { replies = append(replies, s); return nil }
	cmd := ApplyMiddlewares(&HolaCommand{}, WithRateLimit(NewUserLimiter(0.001, 1)))

	require.NoError(t, cmd.Run(&MessageContext{AuthorID: "u1", Reply: reply}))
	require.NoError(t, cmd.Run(&MessageContext{AuthorID: "u1", Reply: reply}))
	require.NoError(t, cmd.Run(&MessageContext{AuthorID: "u2", Reply: reply}))

	assert.Equal(t, []string{"Qué pasa bro 👋", "Slow down a little, try again in a moment.", "Qué pasa bro 👋"}, replies)
}

type panicCommand struct{ HolaCommand }

func (p *panicCommand) Run(ctx *MessageContext) error { panic("boom") }

func TestRecovery(t *testing.T) {
	cmd := ApplyMiddlewares(&panicCommand{}, WithRecovery())

	var err error
	assert.NotPanics(t, func() { err = cmd.Run(&MessageContext{}) })
	assert.ErrorContains(t, err, "panicked")
}

func TestUserMessage(t *testing.T) {
	tests := map[error]string{
		ErrNotInVoice:                  "You have to be in a voice channel for me to play music!",
		spotify.ErrCatalogAuth:         "Spotify links are not available right now.",
		spotify.ErrUnsupportedLink:     "Only Spotify tracks, playlists or albums can be played.",
		parsers.ErrExtraction:          "There was an error getting that video or playlist.",
		source_resolver.ErrNoSource:    "I don't know how to play that link.",
		player.ErrNothingResolved:      "I found no tracks at that link.",
		errors.New("anything else"):    "Something went wrong while handling that command.",
		fmt.Errorf("wrapped: %w", player.ErrNoSession): "Nothing is playing.",
	}
	for err, want := range tests {
		assert.Equal(t, want, UserMessage(err), err.Error())
	}
}
