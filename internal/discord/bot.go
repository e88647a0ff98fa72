package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/hola-music/internal/command"
	"github.com/keshon/hola-music/pkg/logger"
	"github.com/rs/zerolog"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsMessageContent

// NewSession creates a gateway session with the intents the bot needs. It does not connect.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = intents
	return dg, nil
}

// Bot feeds guild messages to the command dispatcher.
type Bot struct {
	dg         *discordgo.Session
	dispatcher *command.Dispatcher
	ctx        context.Context
	log        zerolog.Logger
	onShutdown []func()
}

func NewBot(dg *discordgo.Session, dispatcher *command.Dispatcher) *Bot {
	return &Bot{
		dg:         dg,
		dispatcher: dispatcher,
		ctx:        context.Background(),
		log:        logger.Component("discord"),
	}
}

// OnShutdown registers fn to run after ctx is done and before the gateway closes.
func (b *Bot) OnShutdown(fn func()) {
	b.onShutdown = append(b.onShutdown, fn)
}

// Run connects and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received, cleaning up")
	for _, fn := range b.onShutdown {
		fn()
	}
	if err := b.dg.Close(); err != nil {
		return fmt.Errorf("close Discord session: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Discord bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	if !shouldHandle(m) {
		return
	}

	ctx := &command.MessageContext{
		Ctx:            b.ctx,
		GuildID:        m.GuildID,
		ChannelID:      m.ChannelID,
		AuthorID:       m.Author.ID,
		AuthorName:     m.Author.Username,
		VoiceChannelID: userVoiceChannel(s.State, m.GuildID, m.Author.ID),
		Reply: func(text string) error {
			_, err := s.ChannelMessageSendReply(m.ChannelID, text, m.Reference())
			return err
		},
	}
	b.dispatcher.Dispatch(ctx, m.Content)
}

// shouldHandle drops bot authors and direct messages.
func shouldHandle(m *discordgo.MessageCreate) bool {
	if m == nil || m.Message == nil || m.Author == nil {
		return false
	}
	if m.Author.Bot {
		return false
	}
	return m.GuildID != ""
}
