package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/ssmtree/internal/errors"
)

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Failed to upload directory",
		Details:    "Connection timeout",
		Suggestion: "Check network connectivity",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Failed to upload directory")
	assert.Contains(t, errMsg, "Connection timeout")
	assert.Contains(t, errMsg, "Check network connectivity")
	assert.Contains(t, errMsg, "💡")
}

// TestUserErrorUnwrap verifies wrapped errors survive errors.Is
func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	base := stderrors.New("ThrottlingException: rate exceeded")
	err := errors.UserError{
		Message: "Parameter Store put failed",
		Err:     base,
	}

	assert.True(t, stderrors.Is(err, base))
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "services.api.secrets",
		Value:      42,
		Message:    "Invalid secret reference",
		Suggestion: "Use a string name or a mapping with a 'source' field",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "services.api.secrets")
	assert.Contains(t, errMsg, "42")
	assert.Contains(t, errMsg, "Invalid secret reference")
	assert.Contains(t, errMsg, "source")
}

// TestCommandErrorFormatting verifies CommandError includes exit code
func TestCommandErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.CommandError{
		Command:    "docker compose up",
		ExitCode:   125,
		Message:    "daemon not running",
		Suggestion: "Start the Docker daemon",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "docker compose up")
	assert.Contains(t, errMsg, "exit code: 125")
	assert.Contains(t, errMsg, "daemon not running")
	assert.Contains(t, errMsg, "Start the Docker daemon")
}

// TestStoreSuggestion verifies SSM failure modes map to useful hints
func TestStoreSuggestion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "access denied",
			err:      stderrors.New("AccessDeniedException: not authorized"),
			contains: "IAM permissions",
		},
		{
			name:     "not found",
			err:      stderrors.New("ParameterNotFound: no such parameter"),
			contains: "case-sensitive",
		},
		{
			name:     "throttled",
			err:      stderrors.New("ThrottlingException: rate exceeded"),
			contains: "throttled",
		},
		{
			name:     "missing credentials",
			err:      stderrors.New("failed to retrieve credentials"),
			contains: "aws configure",
		},
		{
			name:     "unknown",
			err:      stderrors.New("something else entirely"),
			contains: "Check AWS credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, errors.StoreSuggestion(tt.err), tt.contains)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(stderrors.New("ParameterNotFound: nope")))
	assert.False(t, errors.IsNotFound(stderrors.New("AccessDenied")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestWrapCommandNotFound(t *testing.T) {
	t.Parallel()

	err := errors.WrapCommandNotFound("docker", stderrors.New("exec: not found"))
	assert.Contains(t, err.Error(), "docker")
	assert.Contains(t, err.Error(), "Install Docker")

	err = errors.WrapCommandNotFound("weirdtool", stderrors.New("exec: not found"))
	assert.Contains(t, err.Error(), "weirdtool")
	assert.Contains(t, err.Error(), "PATH")
}
