package execenv

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/ssmtree/internal/logging"
	"github.com/systmms/ssmtree/internal/secure"
)

func createTestExecutor() *Executor {
	return New(logging.New(false, true))
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger := logging.New(false, true)
	executor := New(logger)
	assert.NotNil(t, executor)
	assert.Equal(t, logger, executor.logger)
}

func TestBuildEnvironment(t *testing.T) {
	// Not parallel: subtests use t.Setenv.

	t.Run("secrets merged over inherited environment", func(t *testing.T) {
		t.Setenv("SSMTREE_TEST_INHERITED", "from-parent")
		t.Setenv("_APPS_DEMO_API_SECRETS_DB_PASSWORD", "stale")

		executor := createTestExecutor()
		env, cleanup, err := executor.buildEnvironment(map[string]*secure.Buffer{
			"_APPS_DEMO_API_SECRETS_DB_PASSWORD": secure.NewBuffer("hunter2"),
		})
		require.NoError(t, err)
		defer cleanup()

		assert.Contains(t, env, "SSMTREE_TEST_INHERITED=from-parent")
		// The resolved secret wins over the inherited value.
		assert.Contains(t, env, "_APPS_DEMO_API_SECRETS_DB_PASSWORD=hunter2")
		assert.NotContains(t, env, "_APPS_DEMO_API_SECRETS_DB_PASSWORD=stale")
	})

	t.Run("result is sorted", func(t *testing.T) {
		executor := createTestExecutor()
		env, cleanup, err := executor.buildEnvironment(map[string]*secure.Buffer{
			"ZZZ_LAST": secure.NewBuffer("z"),
			"AAA_TEST": secure.NewBuffer("a"),
		})
		require.NoError(t, err)
		defer cleanup()

		assert.IsIncreasing(t, env)
	})

	t.Run("empty secrets keep the environment intact", func(t *testing.T) {
		executor := createTestExecutor()
		env, cleanup, err := executor.buildEnvironment(nil)
		require.NoError(t, err)
		defer cleanup()

		assert.Len(t, env, countEnviron())
	})
}

func countEnviron() int {
	n := 0
	for _, kv := range os.Environ() {
		if strings.Contains(kv, "=") {
			n++
		}
	}
	return n
}

func TestWriteOverrideFile(t *testing.T) {
	t.Parallel()

	content := []byte("services: {}\nsecrets:\n  db_password:\n    environment: X\n")
	path, err := writeOverrideFile(content)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Contains(t, path, "ssmtree-override-")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}
