package session

import (
	"sort"
	"sync"
)

// Store maps guild ids to sessions. At most one session exists per guild.
type Store interface {
	Get(guildID string) (*GuildSession, bool)
	// Create stores sess unless the guild already has a session, in which case the
	// existing one is returned with false.
	Create(sess *GuildSession) (*GuildSession, bool)
	Remove(guildID string)
	All() []*GuildSession
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*GuildSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*GuildSession)}
}

func (m *MemoryStore) Get(guildID string) (*GuildSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[guildID]
	return s, ok
}

func (m *MemoryStore) Create(sess *GuildSession) (*GuildSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[sess.GuildID]; ok {
		return existing, false
	}
	m.sessions[sess.GuildID] = sess
	return sess, true
}

func (m *MemoryStore) Remove(guildID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, guildID)
}

// All returns the sessions ordered by guild id.
func (m *MemoryStore) All() []*GuildSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*GuildSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out
}
