package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/keshon/hola-music/datastore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, path string) *Storage {
	t.Helper()
	cfg := datastore.DefaultConfig(path)
	cfg.AutoSaveInterval = 0
	cfg.BackupCount = 0
	cfg.Logger = zerolog.Nop()
	ds, err := datastore.NewWithConfig(cfg)
	require.NoError(t, err)
	return NewWithDataStore(ds)
}

func TestTrackHistoryLimit(t *testing.T) {
	s := newTestStorage(t, filepath.Join(t.TempDir(), "db.json"))
	defer s.Close()

	for i := 0; i < 15; i++ {
		require.NoError(t, s.RecordTrack("g1", fmt.Sprintf("track-%d", i)))
	}

	tracks, err := s.FetchTrackHistory("g1")
	require.NoError(t, err)
	require.Len(t, tracks, tracksHistoryLimit)
	assert.Equal(t, "track-3", tracks[0].Locator)
	assert.Equal(t, "track-14", tracks[len(tracks)-1].Locator)

	other, err := s.FetchTrackHistory("g2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	s := newTestStorage(t, path)
	require.NoError(t, s.RecordTrack("g1", "https://youtu.be/a"))
	require.NoError(t, s.AppendCommandToHistory("g1", CommandHistoryRecord{UserID: "u1", Command: "volume", Param: "40"}))
	require.NoError(t, s.Close())

	s = newTestStorage(t, path)
	defer s.Close()

	tracks, err := s.FetchTrackHistory("g1")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "https://youtu.be/a", tracks[0].Locator)
	assert.False(t, tracks[0].PlayedAt.IsZero())

	cmds, err := s.FetchCommandHistory("g1")
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "40", cmds[0].Param)
}

func TestCommandHistoryLimit(t *testing.T) {
	s := newTestStorage(t, filepath.Join(t.TempDir(), "db.json"))
	defer s.Close()

	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory("g1", CommandHistoryRecord{Command: fmt.Sprint(i)}))
	}
	cmds, err := s.FetchCommandHistory("g1")
	require.NoError(t, err)
	assert.Len(t, cmds, commandHistoryLimit)
	assert.Equal(t, "5", cmds[0].Command)
}
