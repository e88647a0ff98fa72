package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	closer, err := Setup(Config{Level: "debug", JSON: true}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	l := Component("player")
	l.Info().Str("guild", "g1").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "player", entry["component"])
	assert.Equal(t, "g1", entry["guild"])
	assert.Equal(t, "hello", entry["message"])
}

func TestSetupInvalidLevel(t *testing.T) {
	_, err := Setup(Config{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetupFileSink(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "bot.log")

	closer, err := Setup(Config{Level: "info", JSON: true, OutputFile: path}, &buf)
	require.NoError(t, err)

	log.Info().Msg("to both")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "to both")
	assert.FileExists(t, path)
}
