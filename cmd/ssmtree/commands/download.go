package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/ssmtree/internal/config"
)

// NewDownloadCommand creates the download command
func NewDownloadCommand(cfg *config.Config) *cobra.Command {
	var (
		prefix string
		name   string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "download (--prefix <prefix> | --name <name>) --dir <dir>",
		Short: "Download parameters into a local directory",
		Long: `Download parameters into a local directory.

With --prefix, every parameter under the prefix is fetched (following
pagination), chunk groups are reassembled, and the relative directory
structure is recreated under --dir.

With --name, exactly one fully-qualified parameter is fetched and
written to --dir under its last path component, without chunk
reassembly.

Examples:
  ssmtree download --prefix /apps/demo/config --dir ./config
  ssmtree download --name /apps/demo/config/app.yaml --dir .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if name != "" {
				return engine.DownloadOne(cmd.Context(), name, dir)
			}
			return engine.Download(cmd.Context(), prefix, dir)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Parameter Store prefix to download recursively")
	cmd.Flags().StringVar(&name, "name", "", "Fully-qualified name of a single parameter to download")
	cmd.Flags().StringVar(&dir, "dir", "", "Local directory to download into")
	_ = cmd.MarkFlagRequired("dir")
	cmd.MarkFlagsMutuallyExclusive("prefix", "name")
	cmd.MarkFlagsOneRequired("prefix", "name")

	return cmd
}
