package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/generate"
	"github.com/irwanphan/voice-news-summary/internal/proxy"
	"github.com/irwanphan/voice-news-summary/internal/server"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Expose topic generation, sessions, similarity search, analytics and the RSS proxy over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log := serveLogger()

		st := store.New(cfg.Redis, log)
		defer st.Close()

		provider, err := generate.NewProvider(cfg.AI, cfg.AIKey())
		if err != nil {
			return fmt.Errorf("configuring AI provider: %w", err)
		}
		gen := generate.NewService(provider, st, log)

		proxyHandler := proxy.NewHandler(cfg.Proxy, log)

		srv := server.New(flagAddr, st, gen, proxyHandler, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")
}

func serveLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagDebug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)
}
