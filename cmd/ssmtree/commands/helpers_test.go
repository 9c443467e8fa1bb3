package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/systmms/ssmtree/internal/config"
	"github.com/systmms/ssmtree/internal/logging"
	"github.com/systmms/ssmtree/internal/store"
	"github.com/systmms/ssmtree/tests/fakes"
)

// newTestConfig builds a Config backed by a fake SSM client so commands
// run without AWS.
func newTestConfig(t *testing.T, client *fakes.FakeSSMClient) *config.Config {
	t.Helper()

	logger := logging.New(false, true)
	s, err := store.NewSSMStore(context.Background(), store.SSMConfig{}, logger,
		store.WithSSMClient(client))
	require.NoError(t, err)

	return &config.Config{
		ChunkSize: config.DefaultChunkSize,
		Logger:    logger,
		Store:     s,
	}
}

// runCommand executes a command with args and returns its stdout
func runCommand(t *testing.T, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
