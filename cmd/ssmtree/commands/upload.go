package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/ssmtree/internal/config"
	sterrors "github.com/systmms/ssmtree/internal/errors"
)

// NewUploadCommand creates the upload command
func NewUploadCommand(cfg *config.Config) *cobra.Command {
	var (
		dir    string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "upload --dir <dir> --prefix <prefix>",
		Short: "Upload a local directory tree into Parameter Store",
		Long: `Upload every regular file under a directory into Parameter Store.

Each file becomes a SecureString parameter at <prefix>/<relative path>.
Files larger than the chunk size are split into numbered .partN
parameters that download reassembles transparently.

Examples:
  ssmtree upload --dir ./config --prefix /apps/demo/config
  ssmtree upload --dir ./certs --prefix /apps/demo/certs --chunk-size 2048`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return sterrors.UserError{
					Message:    fmt.Sprintf("Not a directory: %s", dir),
					Suggestion: "Pass an existing local directory with --dir",
				}
			}

			engine, err := newEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return engine.Upload(cmd.Context(), dir, prefix)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Local directory to upload")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Parameter Store prefix to upload under")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("prefix")

	return cmd
}
