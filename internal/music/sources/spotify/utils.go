package spotify

import (
	"fmt"
	"net/url"
	"strings"

	zspotify "github.com/zmb3/spotify/v2"
)

type linkKind string

const (
	linkTrack    linkKind = "track"
	linkPlaylist linkKind = "playlist"
	linkAlbum    linkKind = "album"
)

func isSpotifyURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Hostname() == "open.spotify.com"
}

// classifyLink returns the kind and id named by a catalog link path, skipping locale
// segments such as /intl-es/.
func classifyLink(raw string) (linkKind, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnsupportedLink, err)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segs {
		switch kind := linkKind(seg); kind {
		case linkTrack, linkPlaylist, linkAlbum:
			if i+1 < len(segs) && segs[i+1] != "" {
				return kind, segs[i+1], nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnsupportedLink, u.Path)
}

// searchQuery formats "<artist> - <title>" using the first credited artist.
func searchQuery(artists []zspotify.SimpleArtist, title string) string {
	if len(artists) == 0 || artists[0].Name == "" {
		return title
	}
	return artists[0].Name + " - " + title
}
