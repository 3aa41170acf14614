package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pizza-watch/internal/config"
	"github.com/sells-group/pizza-watch/internal/fetcher"
	"github.com/sells-group/pizza-watch/internal/geo"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pizzawatch",
	Short: "Watch pizza outlet activity near a landmark",
	Long:  "Polls the pizza activity service for outlet readings and news, classifies activity, and shows outlets by distance from the landmark.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient(c *config.Config) (*fetcher.Client, error) {
	return fetcher.New(fetcher.Options{
		BaseURL:    c.Source.BaseURL,
		UserAgent:  c.Source.UserAgent,
		Timeout:    c.Source.Timeout(),
		RatePerSec: c.Source.RatePerSec,
		Burst:      c.Source.Burst,
	})
}

func landmark(c *config.Config) geo.Coordinate {
	return geo.Coordinate{Lat: c.Landmark.Latitude, Lon: c.Landmark.Longitude}
}
