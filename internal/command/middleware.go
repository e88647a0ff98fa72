package command

import (
	"fmt"
	"sync"
	"time"

	"github.com/keshon/hola-music/internal/storage"
	"github.com/keshon/hola-music/pkg/logger"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx *MessageContext) error
}

func (w *wrappedCommand) Run(ctx *MessageContext) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// Usage keeps ArgsCommand visible through wrappers.
func (w *wrappedCommand) Usage() string {
	if ac, ok := w.Command.(ArgsCommand); ok {
		return ac.Usage()
	}
	return ""
}

func acceptsArgs(cmd Command) bool {
	for {
		switch c := cmd.(type) {
		case *wrappedCommand:
			cmd = c.Command
		case ArgsCommand:
			return true
		default:
			return false
		}
	}
}

func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithGuildOnly drops messages that were not sent in a guild.
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				if ctx.GuildID == "" {
					return nil
				}
				return cmd.Run(ctx)
			},
		}
	}
}

type CommandRecorder interface {
	AppendCommandToHistory(guildID string, command storage.CommandHistoryRecord) error
}

// WithCommandLogger runs the command, then logs it and stores it in the guild's command
// history when rec is non-nil.
func WithCommandLogger(rec CommandRecorder) Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				start := time.Now()
				err := cmd.Run(ctx)

				l := logger.Component("command")
				var ev *zerolog.Event
				if err != nil {
					ev = l.Warn().Err(err)
				} else {
					ev = l.Info()
				}
				ev.Str("command", cmd.Name()).
					Str("guild", ctx.GuildID).
					Str("user", ctx.AuthorName).
					Str("args", ctx.Args).
					Dur("took", time.Since(start)).
					Msg("Command handled")

				if rec != nil {
					if e := rec.AppendCommandToHistory(ctx.GuildID, storage.CommandHistoryRecord{
						ChannelID: ctx.ChannelID,
						UserID:    ctx.AuthorID,
						Username:  ctx.AuthorName,
						Command:   cmd.Name(),
						Param:     ctx.Args,
						Datetime:  time.Now().UTC(),
					}); e != nil {
						l.Warn().Err(e).Str("command", cmd.Name()).Msg("Failed to store command history")
					}
				}
				return err
			},
		}
	}
}

// UserLimiter hands out one token bucket per user.
type UserLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func NewUserLimiter(perSecond float64, burst int) *UserLimiter {
	if burst < 1 {
		burst = 1
	}
	return &UserLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (u *UserLimiter) Allow(userID string) bool {
	u.mu.Lock()
	l, ok := u.limiters[userID]
	if !ok {
		l = rate.NewLimiter(u.limit, u.burst)
		u.limiters[userID] = l
	}
	u.mu.Unlock()
	return l.Allow()
}

// WithRateLimit rejects commands from users who exceed their allowance.
func WithRateLimit(limiter *UserLimiter) Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				if limiter != nil && !limiter.Allow(ctx.AuthorID) {
					return ctx.Respond("Slow down a little, try again in a moment.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithRecovery turns a panicking command into an error.
func WithRecovery() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) (err error) {
				defer func() {
					if r := recover(); r != nil {
						logger.LogPanic(r)
						err = fmt.Errorf("command %s panicked: %v", cmd.Name(), r)
					}
				}()
				return cmd.Run(ctx)
			},
		}
	}
}
