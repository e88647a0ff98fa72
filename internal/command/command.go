package command

import (
	"context"
	"errors"
)

// ErrNotInVoice rejects playback requests from users outside a voice channel.
var ErrNotInVoice = errors.New("author is not in a voice channel")

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Run(ctx *MessageContext) error
}

// ArgsCommand is a command that takes text after its name, e.g. "!volume 40".
type ArgsCommand interface {
	Command
	Usage() string
}

// MessageContext is what a command sees of the message that invoked it.
type MessageContext struct {
	Ctx context.Context

	GuildID        string
	ChannelID      string
	AuthorID       string
	AuthorName     string
	VoiceChannelID string // empty when the author is not in voice

	Command string
	Args    string

	Reply func(text string) error
}

func (c *MessageContext) Respond(text string) error {
	if c.Reply == nil {
		return nil
	}
	return c.Reply(text)
}

func (c *MessageContext) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
