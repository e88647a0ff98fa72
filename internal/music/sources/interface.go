package sources

import "context"

type Source interface {
	// Match checks if this source can handle the given input
	Match(input string) bool

	// Resolve turns an input into one or more playable tracks, in play order
	Resolve(ctx context.Context, input string) ([]TrackInfo, error)

	// SourceName returns the string identifier ("youtube", "spotify", etc.)
	SourceName() string
}
