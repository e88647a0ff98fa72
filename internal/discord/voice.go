package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/hola-music/internal/music/session"
	"github.com/keshon/hola-music/internal/music/stream"
	"github.com/keshon/hola-music/pkg/logger"
)

// userVoiceChannel returns the voice channel the user is connected to, or "".
func userVoiceChannel(state *discordgo.State, guildID, userID string) string {
	if state == nil {
		return ""
	}
	guild, err := state.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

type voiceConnection struct {
	vc *discordgo.VoiceConnection
}

func (c *voiceConnection) Destroy() error {
	_ = c.vc.Speaking(false)
	if err := c.vc.Disconnect(); err != nil {
		return fmt.Errorf("disconnect voice: %w", err)
	}
	return nil
}

// VoiceJoiner joins voice channels on behalf of the playback controller.
type VoiceJoiner struct {
	dg *discordgo.Session
}

func NewVoiceJoiner(dg *discordgo.Session) *VoiceJoiner {
	return &VoiceJoiner{dg: dg}
}

func (j *VoiceJoiner) Join(ctx context.Context, guildID, channelID string) (session.Connection, session.AudioPlayer, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	vc, err := j.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	l := logger.Component("discord")
	l.Info().Str("guild", guildID).Str("channel", channelID).Msg("Joined voice channel")
	return &voiceConnection{vc: vc}, stream.NewDiscordPlayer(vc), nil
}

// Announcer posts status lines to text channels.
type Announcer struct {
	dg *discordgo.Session
}

func NewAnnouncer(dg *discordgo.Session) *Announcer {
	return &Announcer{dg: dg}
}

func (a *Announcer) Announce(channelID, text string) {
	if _, err := a.dg.ChannelMessageSend(channelID, text); err != nil {
		l := logger.Component("discord")
		l.Warn().Err(err).Str("channel", channelID).Msg("Failed to announce")
	}
}
