// Package fakes provides in-memory doubles for the AWS SDK clients used
// by the store package, so engine and command tests run without AWS.
package fakes

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// FakeParameter holds the data for one stored fake parameter
type FakeParameter struct {
	Value string
	Type  types.ParameterType
}

// FakeSSMClient is an in-memory implementation of the SSM client surface
// the store uses. Listing paginates at PageSize entries per call so the
// pagination loop gets exercised; names are returned in sorted order for
// deterministic pages.
type FakeSSMClient struct {
	mu         sync.Mutex
	Parameters map[string]FakeParameter

	// PageSize bounds GetParametersByPath pages; 0 means everything in
	// one page.
	PageSize int

	// PutErr, GetErr, ListErr inject failures for the corresponding call
	PutErr  error
	GetErr  error
	ListErr error

	// PutOrder records parameter names in the order they were written
	PutOrder []string

	// ListPages counts GetParametersByPath calls, including token
	// follow-ups
	ListPages int
}

// NewFakeSSMClient creates an empty fake client
func NewFakeSSMClient() *FakeSSMClient {
	return &FakeSSMClient{
		Parameters: make(map[string]FakeParameter),
	}
}

// AddParameter seeds a parameter into the fake store
func (f *FakeSSMClient) AddParameter(name, value string, paramType types.ParameterType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Parameters[name] = FakeParameter{Value: value, Type: paramType}
}

// PutParameter stores a parameter, honoring the Overwrite flag
func (f *FakeSSMClient) PutParameter(_ context.Context, params *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PutErr != nil {
		return nil, f.PutErr
	}

	name := aws.ToString(params.Name)
	if _, exists := f.Parameters[name]; exists && !aws.ToBool(params.Overwrite) {
		return nil, fmt.Errorf("ParameterAlreadyExists: %s", name)
	}

	f.Parameters[name] = FakeParameter{
		Value: aws.ToString(params.Value),
		Type:  params.Type,
	}
	f.PutOrder = append(f.PutOrder, name)

	return &ssm.PutParameterOutput{Version: int64(len(f.PutOrder))}, nil
}

// GetParameter fetches a single parameter by exact name
func (f *FakeSSMClient) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	name := aws.ToString(params.Name)
	p, ok := f.Parameters[name]
	if !ok {
		return nil, fmt.Errorf("ParameterNotFound: %s", name)
	}

	return &ssm.GetParameterOutput{
		Parameter: f.toParameter(name, p),
	}, nil
}

// GetParameters fetches a batch of named parameters; unknown names land
// in InvalidParameters the way SSM reports them
func (f *FakeSSMClient) GetParameters(_ context.Context, params *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	out := &ssm.GetParametersOutput{}
	for _, name := range params.Names {
		if p, ok := f.Parameters[name]; ok {
			out.Parameters = append(out.Parameters, *f.toParameter(name, p))
		} else {
			out.InvalidParameters = append(out.InvalidParameters, name)
		}
	}
	return out, nil
}

// GetParametersByPath lists parameters under a path with token pagination
func (f *FakeSSMClient) GetParametersByPath(_ context.Context, params *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ListPages++
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	path := strings.TrimSuffix(aws.ToString(params.Path), "/")
	recursive := aws.ToBool(params.Recursive)

	var names []string
	for name := range f.Parameters {
		rest, ok := strings.CutPrefix(name, path+"/")
		if !ok {
			continue
		}
		if !recursive && strings.Contains(rest, "/") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	start := 0
	if params.NextToken != nil {
		var err error
		start, err = strconv.Atoi(aws.ToString(params.NextToken))
		if err != nil {
			return nil, fmt.Errorf("InvalidNextToken: %s", aws.ToString(params.NextToken))
		}
	}

	end := len(names)
	if f.PageSize > 0 && start+f.PageSize < end {
		end = start + f.PageSize
	}

	out := &ssm.GetParametersByPathOutput{}
	for _, name := range names[start:end] {
		out.Parameters = append(out.Parameters, *f.toParameter(name, f.Parameters[name]))
	}
	if end < len(names) {
		out.NextToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *FakeSSMClient) toParameter(name string, p FakeParameter) *types.Parameter {
	return &types.Parameter{
		Name:  aws.String(name),
		Value: aws.String(p.Value),
		Type:  p.Type,
	}
}
