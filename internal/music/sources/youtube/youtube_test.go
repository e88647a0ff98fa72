package youtube

import (
	"context"
	"fmt"
	"testing"

	"github.com/keshon/hola-music/internal/music/parsers"
	"github.com/keshon/hola-music/internal/music/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	urls  []string
	err   error
	calls []string
}

func (f *fakeLister) ListPlaylist(_ context.Context, u string) ([]string, error) {
	f.calls = append(f.calls, u)
	return f.urls, f.err
}

func TestMatch(t *testing.T) {
	y := New(&fakeLister{})

	assert.True(t, y.Match("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, y.Match("https://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, y.Match("https://music.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, y.Match("https://open.spotify.com/track/123"))
	assert.False(t, y.Match("never gonna give you up"))
}

func TestResolveDirectVideo(t *testing.T) {
	lister := &fakeLister{}
	y := New(lister)

	tracks, err := y.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", tracks[0].Locator)
	assert.Equal(t, sources.SourceYouTube, tracks[0].SourceName)
	assert.Empty(t, lister.calls)
}

func TestResolveVideoWithListIsNormalised(t *testing.T) {
	y := New(&fakeLister{})

	tracks, err := y.Resolve(context.Background(),
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG&index=3")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", tracks[0].Locator)
}

func TestResolvePlaylist(t *testing.T) {
	lister := &fakeLister{urls: []string{"https://www.youtube.com/watch?v=a", "https://www.youtube.com/watch?v=b"}}
	y := New(lister)

	in := "https://www.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG"
	tracks, err := y.Resolve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{in}, lister.calls)
	assert.Equal(t, lister.urls, sources.Locators(tracks))
}

func TestResolvePlaylistFailure(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("%w: exit code 1", parsers.ErrExtraction)}
	y := New(lister)

	_, err := y.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PLbroken")
	assert.ErrorIs(t, err, parsers.ErrExtraction)

	lister.err = nil
	_, err = y.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PLempty")
	assert.ErrorIs(t, err, parsers.ErrExtraction)
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
}

func TestResolveUnknownShape(t *testing.T) {
	y := New(&fakeLister{})

	_, err := y.Resolve(context.Background(), "https://www.youtube.com/@channel")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestCleanVideoURL(t *testing.T) {
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", CleanVideoURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		CleanVideoURL("https://youtu.be/dQw4w9WgXcQ?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG"))
}
