package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/ssmtree/internal/config"
)

// NewCopyCommand creates the copy command
func NewCopyCommand(cfg *config.Config) *cobra.Command {
	var (
		prefix   string
		toPrefix string
	)

	cmd := &cobra.Command{
		Use:   "copy --prefix <from> --to-prefix <to>",
		Short: "Copy a parameter subtree to another prefix",
		Long: `Copy every parameter under one prefix to the same relative key under
another prefix. Values and the SecureString/String classification are
preserved verbatim; chunk groups are copied part by part without
reassembly.

Examples:
  ssmtree copy --prefix /apps/staging --to-prefix /apps/prod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return engine.Copy(cmd.Context(), prefix, toPrefix)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Source prefix to copy from")
	cmd.Flags().StringVar(&toPrefix, "to-prefix", "", "Destination prefix to copy to")
	_ = cmd.MarkFlagRequired("prefix")
	_ = cmd.MarkFlagRequired("to-prefix")

	return cmd
}
