package commands

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/systmms/ssmtree/internal/chunk"
	"github.com/systmms/ssmtree/internal/config"
)

// NewLsCommand creates the ls command
func NewLsCommand(cfg *config.Config) *cobra.Command {
	var (
		prefix    string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "ls --prefix <prefix> [--recursive]",
		Short: "List parameters under a prefix",
		Long: `List the logical entries stored under a prefix. Chunk groups are
collapsed to their base key with a part count; values are never
printed.

Examples:
  ssmtree ls --prefix /apps/demo --recursive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			entries, err := s.List(cmd.Context(), prefix, recursive)
			if err != nil {
				return err
			}

			type row struct {
				bytes  int
				chunks int
				secure bool
			}
			rows := make(map[string]*row)
			for _, entry := range entries {
				base, _ := chunk.ParseKey(entry.Key)
				r := rows[base]
				if r == nil {
					r = &row{}
					rows[base] = r
				}
				r.bytes += len(entry.Value)
				r.chunks++
				r.secure = r.secure || entry.Secure
			}

			names := make([]string, 0, len(rows))
			for name := range rows {
				names = append(names, name)
			}
			sort.Strings(names)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Name", "Type", "Bytes", "Chunks"})
			for _, name := range names {
				r := rows[name]
				paramType := "String"
				if r.secure {
					paramType = "SecureString"
				}
				t.AppendRow(table.Row{name, paramType, r.bytes, r.chunks})
			}
			t.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix to list")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recurse into nested paths")
	_ = cmd.MarkFlagRequired("prefix")

	return cmd
}
