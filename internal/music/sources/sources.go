package sources

const (
	SourceYouTube = "youtube"
	SourceSpotify = "spotify"
)

// TrackInfo is one resolved queue entry.
type TrackInfo struct {
	Locator    string
	Title      string
	SourceName string
}

// Locators returns the locators of tracks in order.
func Locators(tracks []TrackInfo) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.Locator)
	}
	return out
}
