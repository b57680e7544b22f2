package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/feed"
	"github.com/irwanphan/voice-news-summary/internal/generate"
	"github.com/irwanphan/voice-news-summary/internal/speech"
	"github.com/irwanphan/voice-news-summary/internal/store"
	"github.com/irwanphan/voice-news-summary/internal/tui"
	"github.com/irwanphan/voice-news-summary/internal/update"
)

// unavailableGenerator stands in when no AI provider is configured so
// every search falls through to the live headline path.
type unavailableGenerator struct{ err error }

func (g unavailableGenerator) Generate(context.Context, string, string) (*generate.Result, error) {
	return nil, g.err
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := tuiLogger()

	st := store.New(cfg.Redis, log)
	defer st.Close()

	var generator tui.Generator
	provider, err := generate.NewProvider(cfg.AI, cfg.AIKey())
	if err != nil {
		generator = unavailableGenerator{err: err}
	} else {
		generator = generate.NewService(provider, st, log)
	}

	feedOpts := []feed.Option{}
	if cfg.NewsAPIKey != "" {
		feedOpts = append(feedOpts, feed.WithNewsAPIKey(cfg.NewsAPIKey))
	}
	if cfg.ProxyBaseURL != "" {
		feedOpts = append(feedOpts, feed.WithProxyBase(cfg.ProxyBaseURL))
	}
	feeds := feed.NewService(cfg.EnabledSources(), feedOpts...)

	opts := tui.RunOpts{
		Cfg:       cfg,
		Generator: generator,
		Headlines: feeds,
		Stats:     st,
	}

	if local, err := store.OpenLocal(config.LocalCachePath()); err == nil {
		defer local.Close()
		opts.Offline = local
	} else {
		log.Debug().Err(err).Msg("local cache unavailable")
	}

	if speaker, err := speech.NewController(cfg.Speech, log); err == nil {
		opts.Speaker = speaker
	} else {
		log.Debug().Err(err).Msg("speech unavailable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if id, err := st.CreateSession(ctx, ""); err == nil {
		opts.SessionID = id
	}
	cancel()

	if err := tui.Run(opts); err != nil {
		return err
	}

	if res := update.Check(context.Background(), version); res != nil {
		fmt.Printf("\nA new version is available: %s (current: %s)\n", res.LatestVersion, version)
		fmt.Println("https://github.com/irwanphan/voice-news-summary/releases")
	}
	return nil
}

// tuiLogger writes to a file so log lines never tear the screen.
// Discarded unless --debug.
func tuiLogger() zerolog.Logger {
	if !flagDebug {
		return zerolog.New(io.Discard)
	}
	path := filepath.Join(filepath.Dir(config.LocalCachePath()), "voicenews.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.New(io.Discard)
	}
	return zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
