package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/ssmtree/internal/config"
)

// NewEnvCommand creates the env command
func NewEnvCommand(cfg *config.Config) *cobra.Command {
	var (
		file string
		base string
		vars []string
	)

	cmd := &cobra.Command{
		Use:   "env --file <file> --base <prefix> --vars <name,...>",
		Short: "Export parameters as shell environment assignments",
		Long: `Fetch named parameters under a base prefix and write them to a file
as KEY="value" lines, one per parameter. The key is the parameter
name's last path component, upper-cased. The file is overwritten
wholesale on every run.

Values are inserted between the quotes verbatim; escaping embedded
quotes is up to whatever wrote the parameter.

Examples:
  ssmtree env --file .env --base /apps/demo/api --vars db_url,api_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return engine.ExportEnv(cmd.Context(), base, vars, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file to write assignments to")
	cmd.Flags().StringVarP(&base, "base", "b", "", "Base prefix the variables live under")
	cmd.Flags().StringSliceVarP(&vars, "vars", "v", nil, "Comma-separated variable names to fetch")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("vars")

	return cmd
}
