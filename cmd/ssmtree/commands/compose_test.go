package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/ssmtree/tests/fakes"
)

func TestComposeCommandRequiresArgs(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, fakes.NewFakeSSMClient())

	_, err := runCommand(t, NewComposeCommand(cfg), []string{"docker-compose.yml"})
	require.Error(t, err)
}

func TestComposeCommandRejectsBadFileBeforeStoreIO(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  api:\n   - broken"), 0o644))

	client := fakes.NewFakeSSMClient()
	// Any store request would fail loudly; none must happen.
	client.ListErr = errors.New("store must not be touched")
	cfg := newTestConfig(t, client)

	_, err := runCommand(t, NewComposeCommand(cfg), []string{path, "demo"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "store must not be touched")
	assert.Zero(t, client.ListPages)
}

func TestComposeCommandMissingFile(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, fakes.NewFakeSSMClient())

	_, err := runCommand(t, NewComposeCommand(cfg), []string{"/no/such/compose.yml", "demo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read compose file")
}
