package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "abc")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.DiscordToken)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.Equal(t, "https://api.spotify.com/v1/", cfg.SpotifyAPIURL)
	assert.Equal(t, 3, cfg.CommandBurst)
	assert.False(t, cfg.SpotifyEnabled())
}

func TestParseMissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Parse()
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestSpotifyEnabled(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "abc")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.False(t, cfg.SpotifyEnabled(), "secret missing")

	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	cfg, err = Parse()
	require.NoError(t, err)
	assert.True(t, cfg.SpotifyEnabled())
}
