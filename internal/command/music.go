package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/keshon/hola-music/internal/music/player"
)

const (
	groupMusic   = "music"
	listMaxLines = 15
)

// Player is the slice of the playback controller commands drive.
type Player interface {
	Enqueue(ctx context.Context, req player.EnqueueRequest) (player.EnqueueResult, error)
	Advance(guildID string) (string, error)
	SetVolume(guildID string, volume int) error
	Pause(guildID string) error
	Resume(guildID string) error
	Stop(guildID string) error
	List(guildID string) ([]string, error)
}

// LinkCommand plays a bare media or catalog link.
type LinkCommand struct {
	Player Player
}

func (c *LinkCommand) Name() string        { return "link" }
func (c *LinkCommand) Description() string { return "Paste a YouTube or Spotify link to play it" }
func (c *LinkCommand) Aliases() []string   { return nil }
func (c *LinkCommand) Group() string       { return groupMusic }
func (c *LinkCommand) Usage() string       { return "<link>" }

func (c *LinkCommand) Run(ctx *MessageContext) error {
	if ctx.VoiceChannelID == "" {
		return ErrNotInVoice
	}

	res, err := c.Player.Enqueue(ctx.context(), player.EnqueueRequest{
		GuildID:        ctx.GuildID,
		TextChannelID:  ctx.ChannelID,
		VoiceChannelID: ctx.VoiceChannelID,
		Input:          ctx.Args,
	})
	if err != nil {
		return err
	}

	if res.Started {
		if res.Added == 1 {
			return nil
		}
		return ctx.Respond(fmt.Sprintf("🎶 Queued %d tracks.", res.Added))
	}
	return ctx.Respond(fmt.Sprintf("🎶 Added %s to the queue.", plural(res.Added, "track")))
}

type PauseCommand struct {
	Player Player
}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause playback" }
func (c *PauseCommand) Aliases() []string   { return nil }
func (c *PauseCommand) Group() string       { return groupMusic }

func (c *PauseCommand) Run(ctx *MessageContext) error {
	if err := c.Player.Pause(ctx.GuildID); err != nil {
		return err
	}
	return ctx.Respond("⏸ Paused.")
}

// ResumeCommand is "!play": it resumes a paused track.
type ResumeCommand struct {
	Player Player
}

func (c *ResumeCommand) Name() string        { return "play" }
func (c *ResumeCommand) Description() string { return "Resume playback" }
func (c *ResumeCommand) Aliases() []string   { return []string{"resume"} }
func (c *ResumeCommand) Group() string       { return groupMusic }

func (c *ResumeCommand) Run(ctx *MessageContext) error {
	if err := c.Player.Resume(ctx.GuildID); err != nil {
		return err
	}
	return ctx.Respond("▶️ Resumed.")
}

type StopCommand struct {
	Player Player
}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback, clear the queue and leave voice" }
func (c *StopCommand) Aliases() []string   { return nil }
func (c *StopCommand) Group() string       { return groupMusic }

func (c *StopCommand) Run(ctx *MessageContext) error {
	if err := c.Player.Stop(ctx.GuildID); err != nil {
		return err
	}
	return ctx.Respond("⏹ Stopped.")
}

type NextCommand struct {
	Player Player
}

func (c *NextCommand) Name() string        { return "next" }
func (c *NextCommand) Description() string { return "Skip to the next track" }
func (c *NextCommand) Aliases() []string   { return []string{"skip"} }
func (c *NextCommand) Group() string       { return groupMusic }

func (c *NextCommand) Run(ctx *MessageContext) error {
	next, err := c.Player.Advance(ctx.GuildID)
	if err != nil {
		return err
	}
	if next == "" {
		return ctx.Respond("⏭ That was the last track, see you!")
	}
	return ctx.Respond("⏭ Skipped.")
}

type VolumeCommand struct {
	Player Player
}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Set the volume for the next tracks" }
func (c *VolumeCommand) Aliases() []string   { return []string{"vol"} }
func (c *VolumeCommand) Group() string       { return groupMusic }
func (c *VolumeCommand) Usage() string       { return "<0-100>" }

func (c *VolumeCommand) Run(ctx *MessageContext) error {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(ctx.Args), "%"))
	if err != nil {
		return player.ErrVolumeRange
	}
	if err := c.Player.SetVolume(ctx.GuildID, n); err != nil {
		return err
	}
	return ctx.Respond(fmt.Sprintf("🔊 Volume set to %d%%, starting with the next track.", n))
}

type ListCommand struct {
	Player Player
}

func (c *ListCommand) Name() string        { return "list" }
func (c *ListCommand) Description() string { return "Show the queue" }
func (c *ListCommand) Aliases() []string   { return []string{"queue"} }
func (c *ListCommand) Group() string       { return groupMusic }

func (c *ListCommand) Run(ctx *MessageContext) error {
	queue, err := c.Player.List(ctx.GuildID)
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		return ctx.Respond("The queue is empty.")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎶 Queue (%s):\n", plural(len(queue), "track"))
	for i, loc := range queue {
		if i == listMaxLines {
			fmt.Fprintf(&sb, "...and %d more", len(queue)-listMaxLines)
			break
		}
		if i == 0 {
			fmt.Fprintf(&sb, "▶️ %s\n", loc)
			continue
		}
		fmt.Fprintf(&sb, "%d. %s\n", i, loc)
	}
	return ctx.Respond(strings.TrimRight(sb.String(), "\n"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
