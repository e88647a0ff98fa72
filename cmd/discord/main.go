// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/hola-music/internal/command"
	"github.com/keshon/hola-music/internal/config"
	"github.com/keshon/hola-music/internal/discord"
	"github.com/keshon/hola-music/internal/music/parsers/ytdlp"
	"github.com/keshon/hola-music/internal/music/player"
	"github.com/keshon/hola-music/internal/music/session"
	"github.com/keshon/hola-music/internal/music/source_resolver"
	"github.com/keshon/hola-music/internal/music/sources/spotify"
	"github.com/keshon/hola-music/internal/music/sources/youtube"
	"github.com/keshon/hola-music/internal/storage"
	"github.com/keshon/hola-music/pkg/jobmgr"
	"github.com/keshon/hola-music/pkg/logger"
	"github.com/rs/zerolog/log"
)

const appName = "hola-music"

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("Bot exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	closer, err := logger.Setup(logger.Config{
		Level:      cfg.LogLevel,
		JSON:       cfg.LogJSON,
		OutputFile: cfg.LogFile,
	}, os.Stdout)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info().Str("app", appName).Msg("Starting bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ytdlpPath := cfg.YtdlpPath
	if ytdlpPath == "" {
		if ytdlpPath, err = ytdlp.Install(ctx); err != nil {
			return err
		}
	}
	extractor := ytdlp.New(ytdlpPath)

	jobs := jobmgr.NewManager(func(s string) {
		log.Debug().Str("component", "jobs").Msg(s)
	})
	defer jobs.StopAll()

	var tokens *spotify.TokenCache
	if cfg.SpotifyEnabled() {
		tokens = spotify.NewTokenCache(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyTokenURL, jobs)
		if err := tokens.Start(ctx); err != nil {
			return err
		}
	} else {
		log.Warn().Msg("Spotify credentials not set, catalog links are disabled")
	}

	resolver := source_resolver.New(
		youtube.New(extractor),
		spotify.New(tokens, cfg.SpotifyAPIURL),
	)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to flush storage")
		}
	}()

	dg, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	controller := player.New(player.Deps{
		Store:     session.NewMemoryStore(),
		Resolver:  resolver,
		Streamer:  extractor,
		Joiner:    discord.NewVoiceJoiner(dg),
		Announcer: discord.NewAnnouncer(dg),
		History:   store,
	})

	dispatcher := command.NewMusicDispatcher(command.Deps{
		Player:   controller,
		History:  store,
		Recorder: store,
		Limiter:  command.NewUserLimiter(cfg.CommandRate, cfg.CommandBurst),
		Shutdown: stop,
		Prefix:   cfg.CommandPrefix,
	})

	bot := discord.NewBot(dg, dispatcher)
	bot.OnShutdown(controller.StopAll)
	if err := bot.Run(ctx); err != nil {
		return err
	}

	log.Info().Msg("Discord bot exited cleanly")
	return nil
}
