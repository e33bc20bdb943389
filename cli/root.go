package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Context key types to avoid collisions
type contextKey string

// LoggerKey carries the zerolog logger through the command context
const LoggerKey contextKey = "logger"

var rootCmd = &cobra.Command{
	Use:   "floe",
	Short: "Inspect table-format metadata: manifests, schemas, metrics policies",
	Long: `Floe works with the metadata layer of an Iceberg-style table format:
manifest file records, nested schemas and the per-column metrics policy
derived from table properties.

It includes subcommands to:
- resolve and explain the metrics mode of every column of a schema
- render a manifest file record from a JSON descriptor or flags
- parse schema definitions and print their resolved field layout`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteWithContext runs the root command with a context carrying the logger
func ExecuteWithContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)

	if logger := loggerFromContext(ctx); logger != nil {
		logger.Info().Str("cmd", "root").Msg("Executing root command")
	}

	return rootCmd.Execute()
}

func loggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return &logger
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
