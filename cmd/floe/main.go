package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gear6io/floe/cli"
	"github.com/gear6io/floe/config"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the command output; logs go to the file
	cfg.Log.Console = false

	logger, err := config.BuildLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	ctx := context.WithValue(context.Background(), cli.LoggerKey, logger)

	logger.Info().Str("cmd", "main").Msg("Starting floe CLI")

	if err := cli.ExecuteWithContext(ctx); err != nil {
		logger.Error().Str("cmd", "main").Err(err).Msg("CLI execution failed")
		os.Exit(1)
	}

	logger.Info().Str("cmd", "main").Msg("floe CLI completed")
}

// loadConfig uses FLOE_CONFIG when set, defaults otherwise
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("FLOE_CONFIG"); path != "" {
		return config.LoadConfig(path)
	}
	return config.LoadDefaultConfig(), nil
}
