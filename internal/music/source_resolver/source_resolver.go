package source_resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/hola-music/internal/music/sources"
	"github.com/keshon/hola-music/pkg/logger"
)

var ErrNoSource = errors.New("no matching source found")

// SourceResolver dispatches a locator to the first source that accepts it.
type SourceResolver struct {
	Sources []sources.Source
}

func New(srcs ...sources.Source) *SourceResolver {
	return &SourceResolver{Sources: srcs}
}

func (r *SourceResolver) Resolve(ctx context.Context, input string) ([]sources.TrackInfo, error) {
	input = strings.TrimSpace(input)
	if !isURL(input) {
		return nil, fmt.Errorf("%w: %q is not a link", ErrNoSource, input)
	}

	for _, s := range r.Sources {
		if !s.Match(input) {
			continue
		}
		tracks, err := s.Resolve(ctx, input)
		if err != nil {
			l := logger.Component("resolver")
			l.Warn().Err(err).Str("source", s.SourceName()).Str("input", input).Msg("Resolve failed")
			return nil, err
		}
		return tracks, nil
	}
	return nil, ErrNoSource
}

// Supports reports whether any source would accept input.
func (r *SourceResolver) Supports(input string) bool {
	input = strings.TrimSpace(input)
	for _, s := range r.Sources {
		if s.Match(input) {
			return true
		}
	}
	return false
}
