package main

import (
	"context"
	"os"

	"github.com/desertthunder/liketab/internal/services"
	"github.com/desertthunder/liketab/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	var musicService services.MusicService

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.Yandex.Token != "" {
		musicService = services.NewYandexService(services.YandexOpts{
			BaseURL:   config.API.BaseURL,
			Token:     config.Credentials.Yandex.Token,
			Language:  config.Credentials.Yandex.Language,
			RateLimit: config.API.RateLimit,
		})
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: musicService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "liketab",
		Usage:    "Sync Yandex Music likes with an editable table",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
