package youtube

import (
	"net/url"
	"regexp"
	"strings"

	yt "github.com/kkdai/youtube/v2"
)

var youtubeRegex = regexp.MustCompile(`^(?:https?:\/\/)?(?:www\.|m\.|music\.)?(youtube\.com|youtu\.be)\/\S+`)

func isYouTubeURL(input string) bool {
	return youtubeRegex.MatchString(input)
}

func isYouTubeVideoURL(s string) bool {
	return strings.Contains(s, "youtube.com/watch?") && strings.Contains(s, "v=") ||
		strings.Contains(s, "youtube.com/shorts/") ||
		strings.Contains(s, "youtu.be/")
}

func isYouTubePlaylistURL(s string) bool {
	if isYouTubeVideoURL(s) {
		return false
	}
	return strings.Contains(s, "list=") || strings.Contains(s, "youtube.com/playlist")
}

func hasListParam(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.Contains(raw, "list=")
	}
	return u.Query().Get("list") != ""
}

// CleanVideoURL drops the playlist context from a video link that carries both a
// video id and a list id. Any other link is returned unchanged.
func CleanVideoURL(raw string) string {
	if !hasListParam(raw) {
		return raw
	}
	id, err := yt.ExtractVideoID(raw)
	if err != nil || id == "" {
		return raw // fallback to original
	}
	return "https://www.youtube.com/watch?v=" + id
}
