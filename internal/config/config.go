package config

import (
	"github.com/systmms/ssmtree/internal/errors"
	"github.com/systmms/ssmtree/internal/logging"
	"github.com/systmms/ssmtree/internal/store"
)

// DefaultChunkSize bounds a single parameter value. SSM standard-tier
// parameters accept up to 4KB, so oversized payloads are split at this
// boundary into .partN siblings.
const DefaultChunkSize = 4096

// Config holds the runtime configuration assembled from global flags.
// It is built once in the root command's PersistentPreRun and handed to
// every subcommand constructor.
type Config struct {
	Region    string
	Profile   string
	ChunkSize int
	Logger    *logging.Logger

	// Store overrides client construction when set; command tests inject
	// a fake-backed store here.
	Store store.Store
}

// Validate rejects flag combinations before any AWS call is made
func (c *Config) Validate() error {
	if c.ChunkSize < 1 {
		return errors.ConfigError{
			Field:      "chunk-size",
			Value:      c.ChunkSize,
			Message:    "chunk size must be at least 1 byte",
			Suggestion: "Omit --chunk-size to use the 4096-byte default",
		}
	}
	return nil
}
