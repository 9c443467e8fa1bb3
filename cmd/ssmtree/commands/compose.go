package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/ssmtree/internal/compose"
	"github.com/systmms/ssmtree/internal/config"
	"github.com/systmms/ssmtree/internal/execenv"
)

// NewComposeCommand creates the compose command
func NewComposeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <compose-file> <namespace> [-- docker compose args...]",
		Short: "Run docker compose with secrets injected from Parameter Store",
		Long: `Read a compose file's service secret references, fetch their values
from /apps/<namespace>/<service>/secrets/, and run docker compose with
a generated override that redefines each secret as environment-backed.
Secret values are injected into the child environment only; nothing is
written next to the original compose file.

Examples:
  ssmtree compose docker-compose.yml demo -- up -d
  ssmtree compose docker-compose.yml demo -- config`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			composeFile, namespace := args[0], args[1]
			extraArgs := args[2:]

			// Parse and validate before the first store request.
			doc, err := compose.Parse(composeFile)
			if err != nil {
				return err
			}

			s, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			rewriter := compose.NewRewriter(s, cfg.Logger)
			override, env, err := rewriter.Rewrite(cmd.Context(), doc, namespace)
			if err != nil {
				return err
			}
			defer func() {
				for _, buf := range env {
					buf.Destroy()
				}
			}()

			overrideYAML, err := override.Marshal()
			if err != nil {
				return fmt.Errorf("failed to render secrets override: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(overrideYAML))

			executor := execenv.New(cfg.Logger)
			return executor.RunCompose(cmd.Context(), execenv.ComposeOptions{
				ComposeFile:  composeFile,
				OverrideYAML: overrideYAML,
				Environment:  env,
				ExtraArgs:    extraArgs,
			})
		},
	}

	return cmd
}
