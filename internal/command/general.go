package command

import (
	"fmt"
	"strings"

	"github.com/keshon/hola-music/internal/storage"
)

const groupGeneral = "general"

type HolaCommand struct{}

func (c *HolaCommand) Name() string        { return "hola" }
func (c *HolaCommand) Description() string { return "Say hi" }
func (c *HolaCommand) Aliases() []string   { return nil }
func (c *HolaCommand) Group() string       { return groupGeneral }

func (c *HolaCommand) Run(ctx *MessageContext) error {
	return ctx.Respond("Qué pasa bro 👋")
}

type HistoryReader interface {
	FetchTrackHistory(guildID string) ([]storage.TrackHistoryRecord, error)
}

type HistoryCommand struct {
	History HistoryReader
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return nil }
func (c *HistoryCommand) Group() string       { return groupMusic }

func (c *HistoryCommand) Run(ctx *MessageContext) error {
	tracks, err := c.History.FetchTrackHistory(ctx.GuildID)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	if len(tracks) == 0 {
		return ctx.Respond("Nothing has been played here yet.")
	}

	var sb strings.Builder
	sb.WriteString("🕘 Recently played:\n")
	for i := len(tracks) - 1; i >= 0; i-- {
		t := tracks[i]
		fmt.Fprintf(&sb, "%s  %s\n", t.PlayedAt.Format("2006-01-02 15:04"), t.Locator)
	}
	return ctx.Respond(strings.TrimRight(sb.String(), "\n"))
}

type HelpCommand struct {
	Registry *Registry
	Prefix   string
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List commands" }
func (c *HelpCommand) Aliases() []string   { return nil }
func (c *HelpCommand) Group() string       { return groupGeneral }

func (c *HelpCommand) Run(ctx *MessageContext) error {
	var sb strings.Builder
	sb.WriteString("Paste a YouTube or Spotify link while in a voice channel to play it.\n")
	for _, cmd := range c.Registry.AllCommands() {
		usage := ""
		if acceptsArgs(cmd) {
			if ac, ok := cmd.(ArgsCommand); ok {
				usage = " " + ac.Usage()
			}
		}
		fmt.Fprintf(&sb, "`%s%s%s` %s\n", c.Prefix, cmd.Name(), usage, cmd.Description())
	}
	return ctx.Respond(strings.TrimRight(sb.String(), "\n"))
}

// ShutdownCommand acknowledges and then asks the process to exit.
type ShutdownCommand struct {
	Shutdown func()
}

func (c *ShutdownCommand) Name() string        { return "shutdown" }
func (c *ShutdownCommand) Description() string { return "Stop all playback and turn the bot off" }
func (c *ShutdownCommand) Aliases() []string   { return nil }
func (c *ShutdownCommand) Group() string       { return groupGeneral }

func (c *ShutdownCommand) Run(ctx *MessageContext) error {
	err := ctx.Respond("Shutting down, bye 👋")
	if c.Shutdown != nil {
		c.Shutdown()
	}
	return err
}
