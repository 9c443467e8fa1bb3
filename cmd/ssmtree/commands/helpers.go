package commands

import (
	"context"

	"github.com/systmms/ssmtree/internal/config"
	sterrors "github.com/systmms/ssmtree/internal/errors"
	"github.com/systmms/ssmtree/internal/store"
	"github.com/systmms/ssmtree/internal/tree"
)

// newStore builds the process's single store handle from the global
// flags. Credential loading happens here and nowhere else.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store != nil {
		return cfg.Store, nil
	}

	s, err := store.NewSSMStore(ctx, store.SSMConfig{
		Region:  cfg.Region,
		Profile: cfg.Profile,
	}, cfg.Logger)
	if err != nil {
		return nil, sterrors.UserError{
			Message:    "Failed to initialize the Parameter Store client",
			Details:    err.Error(),
			Suggestion: "Check AWS credentials and region configuration",
			Err:        err,
		}
	}
	return s, nil
}

// newEngine builds a sync engine over the configured store
func newEngine(ctx context.Context, cfg *config.Config) (*tree.Engine, error) {
	s, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return tree.New(s, cfg.Logger, cfg.ChunkSize), nil
}
