package parsers

import (
	"context"
	"io"
)

// Process is a running extraction that writes raw audio to its stdout.
type Process interface {
	io.Reader
	// Kill terminates the process and releases its pipes. Safe to call more than once.
	Kill() error
}

// Extractor drives the external extraction tool.
type Extractor interface {
	// Stream launches the tool for a locator and returns the running process.
	Stream(ctx context.Context, locator string) (Process, error)
	// ListPlaylist returns one entry URL per playlist item, in playlist order.
	ListPlaylist(ctx context.Context, playlistURL string) ([]string, error)
}
