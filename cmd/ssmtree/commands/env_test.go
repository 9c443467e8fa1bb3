package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/ssmtree/tests/fakes"
)

func TestEnvCommand(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSSMClient()
	client.AddParameter("/apps/demo/api/db_url", "postgres://localhost/app", types.ParameterTypeSecureString)
	client.AddParameter("/apps/demo/api/api_key", "k-123", types.ParameterTypeSecureString)
	cfg := newTestConfig(t, client)

	file := filepath.Join(t.TempDir(), ".env")
	_, err := runCommand(t, NewEnvCommand(cfg), []string{
		"--file", file,
		"--base", "/apps/demo/api",
		"--vars", "db_url,api_key",
	})
	require.NoError(t, err)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), `DB_URL="postgres://localhost/app"`)
	assert.Contains(t, string(content), `API_KEY="k-123"`)
}

func TestEnvCommandUnknownVariable(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSSMClient()
	client.AddParameter("/base/known", "v", types.ParameterTypeString)
	cfg := newTestConfig(t, client)

	file := filepath.Join(t.TempDir(), ".env")
	_, err := runCommand(t, NewEnvCommand(cfg), []string{
		"--file", file,
		"--base", "/base",
		"--vars", "known,missing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/base/missing")
}
