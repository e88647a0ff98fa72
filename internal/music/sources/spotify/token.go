package spotify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/hola-music/pkg/jobmgr"
	"github.com/keshon/hola-music/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	refreshJobName  = "spotify-token-refresh"
	exchangeTimeout = 10 * time.Second
)

// TokenCache owns the process-wide catalog bearer token. It acquires the token with a
// client-credentials exchange and re-acquires it shortly before expiry on a single
// background job.
type TokenCache struct {
	cfg  clientcredentials.Config
	jobs *jobmgr.Manager

	refreshMargin time.Duration
	retryDelay    time.Duration
	minDelay      time.Duration

	mu    sync.RWMutex
	token *oauth2.Token
}

func NewTokenCache(clientID, clientSecret, tokenURL string, jobs *jobmgr.Manager) *TokenCache {
	if jobs == nil {
		jobs = jobmgr.NewManager(nil)
	}
	return &TokenCache{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
		jobs:          jobs,
		refreshMargin: time.Minute,
		retryDelay:    30 * time.Second,
		minDelay:      5 * time.Second,
	}
}

// Start performs the first exchange and schedules refreshes until ctx is done or Stop is
// called. A failed first exchange is logged and retried by the refresh job.
func (c *TokenCache) Start(ctx context.Context) error {
	if err := c.refresh(ctx); err != nil {
		l := logger.Component("spotify")
		l.Error().Err(err).Msg("Initial token exchange failed")
	}
	return c.jobs.StartAsync(ctx, refreshJobName, c.refreshLoop)
}

// Stop cancels the refresh job. The cached token stays readable until it expires.
func (c *TokenCache) Stop() {
	_ = c.jobs.Stop(refreshJobName)
}

// Token implements oauth2.TokenSource. It never performs network I/O.
func (c *TokenCache) Token() (*oauth2.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil {
		return nil, fmt.Errorf("%w: no token acquired yet", ErrCatalogAuth)
	}
	if !c.token.Expiry.IsZero() && time.Now().After(c.token.Expiry) {
		return nil, fmt.Errorf("%w: token expired", ErrCatalogAuth)
	}
	tok := *c.token
	return &tok, nil
}

// Ready reports whether a usable token is cached.
func (c *TokenCache) Ready() bool {
	_, err := c.Token()
	return err == nil
}

func (c *TokenCache) refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return fmt.Errorf("client credentials exchange: %w", err)
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()

	l := logger.Component("spotify")
	l.Info().Time("expiry", tok.Expiry).Msg("Catalog token acquired")
	return nil
}

func (c *TokenCache) refreshLoop(ctx context.Context) error {
	for {
		timer := time.NewTimer(c.nextDelay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if err := c.refresh(ctx); err != nil && ctx.Err() == nil {
			l := logger.Component("spotify")
			l.Warn().Err(err).Dur("retry_in", c.retryDelay).Msg("Token refresh failed")
		}
	}
}

// nextDelay is the wait until expiry minus the safety margin, or the retry delay when
// no token is held.
func (c *TokenCache) nextDelay() time.Duration {
	c.mu.RLock()
	tok := c.token
	c.mu.RUnlock()

	if tok == nil || tok.Expiry.IsZero() {
		return c.retryDelay
	}
	if time.Now().After(tok.Expiry) {
		return c.retryDelay
	}
	d := time.Until(tok.Expiry) - c.refreshMargin
	if d < c.minDelay {
		d = c.minDelay
	}
	return d
}
