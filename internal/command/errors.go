package command

import (
	"errors"
	"strings"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/internal/music/player"
	"github.com/keshon/hola-music/internal/music/source_resolver"
	"github.com/keshon/hola-music/internal/music/sources/spotify"
	"github.com/keshon/hola-music/internal/music/sources/youtube"
)

// UserMessage converts a command error into the reply shown in chat.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotInVoice):
		return "You have to be in a voice channel for me to play music!"
	case errors.Is(err, player.ErrNoSession):
		return "Nothing is playing."
	case errors.Is(err, player.ErrVolumeRange):
		return "Volume must be a number between 0 and 100."
	case errors.Is(err, player.ErrNothingResolved):
		return "I found no tracks at that link."
	case errors.Is(err, spotify.ErrCatalogAuth):
		return "Spotify links are not available right now."
	case errors.Is(err, spotify.ErrUnsupportedLink):
		return "Only Spotify tracks, playlists or albums can be played."
	case errors.Is(err, spotify.ErrCatalogAPI):
		return "Spotify returned an error: " + strings.TrimPrefix(err.Error(), spotify.ErrCatalogAPI.Error()+": ")
	case errors.Is(err, parsers.ErrExtraction):
		return "There was an error getting that video or playlist."
	case errors.Is(err, youtube.ErrInvalidURL), errors.Is(err, source_resolver.ErrNoSource):
		return "I don't know how to play that link."
	default:
		return "Something went wrong while handling that command."
	}
}
