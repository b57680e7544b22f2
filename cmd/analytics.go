package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show usage analytics",
	Long:  "Print total searches, average response time and the most popular topics recorded in Redis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		st := store.New(cfg.Redis, zerolog.New(io.Discard))
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if !st.HealthCheck(ctx) {
			return fmt.Errorf("redis is unreachable at %s:%d", cfg.Redis.Host, cfg.Redis.Port)
		}

		a := st.Analytics(ctx)
		fmt.Printf("Total searches: %d\n", a.TotalRequests)
		fmt.Printf("Average response time: %dms\n", a.AverageResponseTimeMS)
		if len(a.PopularTopics) > 0 {
			fmt.Println("Popular topics:")
			for i, tc := range a.PopularTopics {
				fmt.Printf("  %2d. %s (%d)\n", i+1, tc.Topic, tc.Count)
			}
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check Redis connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		st := store.New(cfg.Redis, zerolog.New(io.Discard))
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if !st.HealthCheck(ctx) {
			return fmt.Errorf("redis: unreachable")
		}
		fmt.Println("redis: ok")
		return nil
	},
}
