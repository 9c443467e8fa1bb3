package compose_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/ssmtree/internal/compose"
	"gopkg.in/yaml.v3"
)

func writeCompose(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseBareAndDetailedSecrets(t *testing.T) {
	t.Parallel()

	path := writeCompose(t, `
services:
  api:
    secrets:
      - db_password
      - source: api_key
        target: /run/secrets/key
        uid: "103"
        mode: 0440
  worker: {}
secrets:
  db_password:
    external: true
  api_key:
    file: ./key.txt
`)

	file, err := compose.Parse(path)
	require.NoError(t, err)

	api := file.Services["api"]
	require.Len(t, api.Secrets, 2)
	assert.Equal(t, "db_password", api.Secrets[0].Source)
	assert.Equal(t, "api_key", api.Secrets[1].Source)
	assert.Equal(t, "/run/secrets/key", api.Secrets[1].Target)
	assert.Equal(t, "103", api.Secrets[1].UID)
	require.NotNil(t, api.Secrets[1].Mode)
	assert.Equal(t, uint32(0o440), *api.Secrets[1].Mode)

	assert.Empty(t, file.Services["worker"].Secrets)

	require.NotNil(t, file.Secrets["db_password"].External)
	assert.True(t, *file.Secrets["db_password"].External)
	assert.Equal(t, "./key.txt", file.Secrets["api_key"].File)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeCompose(t, "services:\n  api:\n   - broken\n  indent")
	_, err := compose.Parse(path)
	require.Error(t, err)
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing services",
			content: "secrets: {}\n",
		},
		{
			name: "secret reference is a number",
			content: `
services:
  api:
    secrets:
      - 42
`,
		},
		{
			name: "detailed reference without source",
			content: `
services:
  api:
    secrets:
      - target: /run/secrets/key
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCompose(t, tt.content)
			_, err := compose.Parse(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema")
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()

	_, err := compose.Parse(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read compose file")
}

func TestMarshalRoundTripsReferenceForms(t *testing.T) {
	t.Parallel()

	path := writeCompose(t, `
services:
  api:
    secrets:
      - bare_name
      - source: detailed
        target: /run/secrets/d
`)

	file, err := compose.Parse(path)
	require.NoError(t, err)

	out, err := file.Marshal()
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &generic))

	services := generic["services"].(map[string]interface{})
	secrets := services["api"].(map[string]interface{})["secrets"].([]interface{})
	require.Len(t, secrets, 2)

	// The bare reference stays a scalar, the detailed one a mapping.
	assert.Equal(t, "bare_name", secrets[0])
	detailed := secrets[1].(map[string]interface{})
	assert.Equal(t, "detailed", detailed["source"])
	assert.Equal(t, "/run/secrets/d", detailed["target"])
}

func TestMarshalOverrideFragment(t *testing.T) {
	t.Parallel()

	file := &compose.File{
		Services: map[string]compose.Service{},
		Secrets: map[string]compose.SecretDefinition{
			"db_password": {Environment: "_APPS_DEMO_API_SECRETS_DB_PASSWORD"},
		},
	}

	out, err := file.Marshal()
	require.NoError(t, err)

	var decoded compose.File
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "_APPS_DEMO_API_SECRETS_DB_PASSWORD", decoded.Secrets["db_password"].Environment)
	assert.Nil(t, decoded.Secrets["db_password"].External)
}
