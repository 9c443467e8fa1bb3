// Package execenv launches docker compose with the generated secrets
// override and the resolved secret values injected into the child
// environment. Secrets never touch the original compose file.
package execenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	sterrors "github.com/systmms/ssmtree/internal/errors"
	"github.com/systmms/ssmtree/internal/logging"
	"github.com/systmms/ssmtree/internal/secure"
)

// Executor runs docker compose with ephemeral environment variables
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// ComposeOptions configures one docker compose invocation
type ComposeOptions struct {
	ComposeFile  string                    // Path to the original compose file
	OverrideYAML []byte                    // Rendered secrets override fragment
	Environment  map[string]*secure.Buffer // Secret values to inject
	ExtraArgs    []string                  // Arguments after -- (up, down, ...)
}

// RunCompose writes the override fragment to a temp file and runs
// `docker compose -f <original> -f <override> <extra args>`. The
// override file is listed second so its environment-backed secret
// sources take precedence in the merge. Stdio is passed through and the
// child's exit code is preserved.
func (e *Executor) RunCompose(ctx context.Context, options ComposeOptions) error {
	if _, err := exec.LookPath("docker"); err != nil {
		return sterrors.WrapCommandNotFound("docker", err)
	}

	overrideFile, err := writeOverrideFile(options.OverrideYAML)
	if err != nil {
		return err
	}
	defer os.Remove(overrideFile)

	args := append([]string{"compose", "-f", options.ComposeFile, "-f", overrideFile}, options.ExtraArgs...)

	env, cleanup, err := e.buildEnvironment(options.Environment)
	if err != nil {
		return err
	}
	defer cleanup()

	e.logger.Debug("Executing: docker %s", strings.Join(args, " "))
	e.logger.Debug("Environment variables injected: %d", len(options.Environment))

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			// Preserve the exit code from the child process
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				os.Exit(status.ExitStatus())
			}
			os.Exit(1)
		}
		return sterrors.CommandError{
			Command:    "docker " + strings.Join(args, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return nil
}

// buildEnvironment merges the secret buffers over the current process
// environment. Secrets take precedence over inherited variables. The
// returned cleanup wipes the decrypted copies once the child has
// started (exec.Cmd copies the slice at start).
func (e *Executor) buildEnvironment(secrets map[string]*secure.Buffer) ([]string, func(), error) {
	envMap := make(map[string]string)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	var opened []interface{ Destroy() }
	for key, buf := range secrets {
		locked, err := buf.Open()
		if err != nil {
			for _, l := range opened {
				l.Destroy()
			}
			return nil, nil, fmt.Errorf("failed to open secret %s: %w", key, err)
		}
		opened = append(opened, locked)
		envMap[key] = locked.String()
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(result)

	cleanup := func() {
		for _, l := range opened {
			l.Destroy()
		}
	}
	return result, cleanup, nil
}

// writeOverrideFile persists the override fragment to a temp file that
// lives only for the duration of the invocation
func writeOverrideFile(content []byte) (string, error) {
	f, err := os.CreateTemp("", "ssmtree-override-*.yaml")
	if err != nil {
		return "", fmt.Errorf("failed to create override file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write override file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close override file: %w", err)
	}
	return f.Name(), nil
}
