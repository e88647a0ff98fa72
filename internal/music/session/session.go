package session

import (
	"io"
	"sync"

	"github.com/keshon/hola-music/internal/music/parsers"
)

const DefaultVolume = 100

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateErrored State = "errored"
)

// Connection is the voice connection a session owns.
type Connection interface {
	Destroy() error
}

// AudioPlayer plays one resource at a time and reports its end exactly once through
// onEnd: nil when the resource drained, non-nil on a runtime failure. A resource
// replaced by Play or dropped by Stop reports nothing.
type AudioPlayer interface {
	Play(src io.Reader, volume int, onEnd func(error)) error
	SetPaused(paused bool)
	Stop()
}

// GuildSession is the playback state of one guild. Every field below mu is guarded by
// it; callers take the lock through Lock/Unlock.
type GuildSession struct {
	mu sync.Mutex

	GuildID        string
	TextChannelID  string
	VoiceChannelID string

	Connection Connection
	Player     AudioPlayer

	Queue      []string
	Volume     int
	State      State
	Process    parsers.Process
	Generation uint64

	closed bool
}

func New(guildID, textChannelID, voiceChannelID string) *GuildSession {
	return &GuildSession{
		GuildID:        guildID,
		TextChannelID:  textChannelID,
		VoiceChannelID: voiceChannelID,
		Volume:         DefaultVolume,
		State:          StateIdle,
	}
}

func (s *GuildSession) Lock()   { s.mu.Lock() }
func (s *GuildSession) Unlock() { s.mu.Unlock() }

// Close marks the session torn down. Caller holds the lock.
func (s *GuildSession) Close() { s.closed = true }

// Closed reports whether the session was torn down. Caller holds the lock.
func (s *GuildSession) Closed() bool { return s.closed }

// Head returns the track at the front of the queue. Caller holds the lock.
func (s *GuildSession) Head() (string, bool) {
	if len(s.Queue) == 0 {
		return "", false
	}
	return s.Queue[0], true
}

// KillProcess terminates the in-flight extraction process, if any. Caller holds the lock.
func (s *GuildSession) KillProcess() error {
	if s.Process == nil {
		return nil
	}
	p := s.Process
	s.Process = nil
	return p.Kill()
}
