package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	sterrors "github.com/systmms/ssmtree/internal/errors"
	"github.com/systmms/ssmtree/internal/logging"
)

// SSMClientAPI defines the interface for AWS SSM Parameter Store operations
// This allows for mocking in tests
type SSMClientAPI interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// SSMStore implements Store over AWS Systems Manager Parameter Store
type SSMStore struct {
	client SSMClientAPI
	logger *logging.Logger
	config SSMConfig
}

// SSMConfig holds AWS SSM-specific configuration
type SSMConfig struct {
	Region  string
	Profile string
}

// SSMStoreOption is a functional option for configuring the SSM store
type SSMStoreOption func(*SSMStore)

// WithSSMClient sets a custom SSM client (for testing)
func WithSSMClient(client SSMClientAPI) SSMStoreOption {
	return func(s *SSMStore) {
		s.client = client
	}
}

// NewSSMStore creates a Parameter Store client handle. Construction is
// the single process-lifecycle step that loads AWS credentials; the
// handle is then passed explicitly to every operation.
func NewSSMStore(ctx context.Context, config SSMConfig, logger *logging.Logger, opts ...SSMStoreOption) (*SSMStore, error) {
	s := &SSMStore{
		logger: logger,
		config: config,
	}

	// Apply options (allows mock client injection)
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		client, err := createSSMClient(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSM client: %w", err)
		}
		s.client = client
	}

	return s, nil
}

// createSSMClient creates an AWS SSM client with the given configuration
func createSSMClient(ctx context.Context, config SSMConfig) (*ssm.Client, error) {
	var configOpts []func(*awsconfig.LoadOptions) error

	if config.Region != "" {
		configOpts = append(configOpts, awsconfig.WithRegion(config.Region))
	}

	if config.Profile != "" {
		configOpts = append(configOpts, awsconfig.WithSharedConfigProfile(config.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return ssm.NewFromConfig(cfg), nil
}

// Put writes one parameter, overwriting any existing value at the key
func (s *SSMStore) Put(ctx context.Context, entry Entry) error {
	paramType := types.ParameterTypeString
	if entry.Secure {
		paramType = types.ParameterTypeSecureString
	}

	s.logger.Debug("Putting parameter %s (%d bytes)", entry.Key, len(entry.Value))

	input := &ssm.PutParameterInput{
		Name:      aws.String(entry.Key),
		Value:     aws.String(entry.Value),
		Overwrite: aws.Bool(true),
		Type:      paramType,
	}

	if _, err := s.client.PutParameter(ctx, input); err != nil {
		return sterrors.StoreError("put", entry.Key, err)
	}
	return nil
}

// Get fetches exactly one parameter, decrypted
func (s *SSMStore) Get(ctx context.Context, key string) (Entry, error) {
	s.logger.Debug("Getting parameter %s", key)

	input := &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(true),
	}

	result, err := s.client.GetParameter(ctx, input)
	if err != nil {
		if sterrors.IsNotFound(err) {
			return Entry{}, sterrors.UserError{
				Message:    fmt.Sprintf("Parameter not found: %s", key),
				Suggestion: "Check that the parameter exists and you have ssm:GetParameter permission",
				Details:    err.Error(),
			}
		}
		return Entry{}, sterrors.StoreError("get", key, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return Entry{}, fmt.Errorf("parameter %s has no value", key)
	}

	return entryFromParameter(*result.Parameter), nil
}

// GetBatch fetches up to the SSM batch limit of named parameters in one
// request. Names the store doesn't know come back in InvalidParameters
// and are reported as one failure.
func (s *SSMStore) GetBatch(ctx context.Context, keys []string) ([]Entry, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	s.logger.Debug("Getting %d parameters", len(keys))

	input := &ssm.GetParametersInput{
		Names:          keys,
		WithDecryption: aws.Bool(true),
	}

	result, err := s.client.GetParameters(ctx, input)
	if err != nil {
		return nil, sterrors.StoreError("batch get", fmt.Sprintf("%d keys", len(keys)), err)
	}

	if len(result.InvalidParameters) > 0 {
		return nil, sterrors.UserError{
			Message:    fmt.Sprintf("Parameters not found: %v", result.InvalidParameters),
			Suggestion: "Check the parameter names under the given base prefix",
		}
	}

	entries := make([]Entry, 0, len(result.Parameters))
	for _, p := range result.Parameters {
		entries = append(entries, entryFromParameter(p))
	}
	return entries, nil
}

// List returns every parameter under prefix, following NextToken
// pagination until the store stops returning one. Pages are requested
// strictly sequentially; each token gates the next request.
func (s *SSMStore) List(ctx context.Context, prefix string, recursive bool) ([]Entry, error) {
	var entries []Entry
	var nextToken *string

	for {
		input := &ssm.GetParametersByPathInput{
			Path:           aws.String(prefix),
			Recursive:      aws.Bool(recursive),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		}

		result, err := s.client.GetParametersByPath(ctx, input)
		if err != nil {
			return nil, sterrors.StoreError("list", prefix, err)
		}

		for _, p := range result.Parameters {
			entries = append(entries, entryFromParameter(p))
		}

		if result.NextToken == nil || *result.NextToken == "" {
			break
		}
		nextToken = result.NextToken
	}

	s.logger.Debug("Listed %d parameters under %s", len(entries), prefix)
	return entries, nil
}

func entryFromParameter(p types.Parameter) Entry {
	return Entry{
		Key:    aws.ToString(p.Name),
		Value:  aws.ToString(p.Value),
		Secure: p.Type == types.ParameterTypeSecureString,
	}
}
