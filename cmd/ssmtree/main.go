package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/systmms/ssmtree/cmd/ssmtree/commands"
	"github.com/systmms/ssmtree/internal/config"
	"github.com/systmms/ssmtree/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe any decrypted secret material before the process exits.
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		region    string
		profile   string
		chunkSize int
		noColor   bool
		debug     bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "ssmtree",
		Short: "Sync directory trees and secrets with AWS SSM Parameter Store",
		Long: `ssmtree treats SSM Parameter Store as a substitute filesystem: it
uploads and downloads whole directory trees (chunking oversized files
across .partN parameters), copies parameter subtrees, exports
parameters as env files, and runs docker compose with stored secrets
injected as environment variables.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			cfg.Region = region
			cfg.Profile = profile
			cfg.ChunkSize = chunkSize
			cfg.Logger = logger

			return cfg.Validate()
		},
	}

	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region (defaults to the SDK chain)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", config.DefaultChunkSize, "Maximum parameter value size in bytes")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Add commands
	rootCmd.AddCommand(
		commands.NewUploadCommand(cfg),
		commands.NewDownloadCommand(cfg),
		commands.NewCopyCommand(cfg),
		commands.NewEnvCommand(cfg),
		commands.NewLsCommand(cfg),
		commands.NewComposeCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
