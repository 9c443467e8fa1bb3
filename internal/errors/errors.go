package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a compose/flag configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a child process execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// StoreError wraps a Parameter Store request failure with context about
// which operation and key were involved.
func StoreError(operation, key string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("Parameter Store %s failed for %s", operation, key),
		Suggestion: StoreSuggestion(err),
		Err:        err,
	}
}

// StoreSuggestion returns a helpful suggestion based on common SSM failures
func StoreSuggestion(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "accessdenied"):
		return "Check IAM permissions: ssm:GetParameter, ssm:GetParametersByPath, ssm:PutParameter, and kms:Decrypt (for SecureString)"
	case strings.Contains(errStr, "parameternotfound"):
		return "Verify the parameter name and path. SSM parameters are case-sensitive"
	case strings.Contains(errStr, "parameterlimitexceeded"):
		return "The account hit its parameter count limit. Delete unused parameters or request a limit increase"
	case strings.Contains(errStr, "invalidkeyid"):
		return "The KMS key for this SecureString parameter may not exist or you lack kms:Decrypt permission"
	case strings.Contains(errStr, "throttl"):
		return "Request was throttled. Wait a moment and rerun; large trees may need request rate increases"
	case strings.Contains(errStr, "expiredtoken") || strings.Contains(errStr, "credentials"):
		return "Configure AWS credentials: 'aws configure', set AWS_PROFILE, or refresh your SSO session"
	case strings.Contains(errStr, "region"):
		return "Check that you're using the correct AWS region. Set --region or AWS_REGION"
	default:
		return "Check AWS credentials, region, and IAM permissions for SSM Parameter Store"
	}
}

// IsNotFound reports whether err is an SSM parameter-not-found failure
func IsNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ParameterNotFound")
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"docker": "Install Docker from https://docker.com/",
		"podman": "Install Podman from https://podman.io/",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
	}
}
