package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	sterrors "github.com/systmms/ssmtree/internal/errors"
	"github.com/systmms/ssmtree/internal/logging"
	"github.com/systmms/ssmtree/internal/secure"
	"github.com/systmms/ssmtree/internal/store"
)

// Rewriter turns a compose document's secret references into an override
// fragment backed by the parameter store.
type Rewriter struct {
	store  store.Store
	logger *logging.Logger
}

// NewRewriter creates a rewriter bound to a store
func NewRewriter(s store.Store, logger *logging.Logger) *Rewriter {
	return &Rewriter{
		store:  s,
		logger: logger,
	}
}

// Rewrite computes the store key for every secret a service references
// (/apps/<namespace>/<service>/secrets/<source>), fetches each distinct
// parent path with one non-recursive listing, and returns:
//
//   - an override document with empty services and an environment-backed
//     secrets mapping, for docker compose to merge over the original
//   - the environment values those secrets resolve to, keyed by the
//     derived variable name (key path, slashes to underscores,
//     upper-cased), held in protected buffers
//
// The parent-path fetches run concurrently, one goroutine per distinct
// group; fan-out is bounded by the document's secret spread, so no cap
// is applied.
func (r *Rewriter) Rewrite(ctx context.Context, doc *File, namespace string) (*File, map[string]*secure.Buffer, error) {
	var keys []string
	for serviceName, service := range doc.Services {
		for _, secret := range service.Secrets {
			keys = append(keys, fmt.Sprintf("/apps/%s/%s/secrets/%s", namespace, serviceName, secret.Source))
		}
	}
	sort.Strings(keys)

	groups := make(map[string]struct{})
	for _, key := range keys {
		groups[parentPath(key)] = struct{}{}
	}

	fetched, err := r.fetchGroups(ctx, groups)
	if err != nil {
		return nil, nil, err
	}

	override := &File{
		Services: map[string]Service{},
		Secrets:  make(map[string]SecretDefinition, len(keys)),
	}
	for _, key := range keys {
		shortName := key[strings.LastIndex(key, "/")+1:]
		override.Secrets[shortName] = SecretDefinition{Environment: envName(key)}
	}

	env := make(map[string]*secure.Buffer, len(fetched))
	for key, value := range fetched {
		env[envName(key)] = secure.NewBuffer(value)
	}

	r.logger.Info("Resolved %d secret(s) across %d path group(s)", len(keys), len(groups))
	return override, env, nil
}

// fetchGroups lists every parent path concurrently and merges the
// results into one key-to-value map.
func (r *Rewriter) fetchGroups(ctx context.Context, groups map[string]struct{}) (map[string]string, error) {
	fetched := make(map[string]string)
	fetchedMu := &sync.Mutex{}

	var wg sync.WaitGroup
	errChan := make(chan error, len(groups))

	for group := range groups {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			r.logger.Debug("Fetching secrets under %s", path)
			entries, err := r.store.List(ctx, path, false)
			if err != nil {
				errChan <- err
				return
			}

			fetchedMu.Lock()
			for _, entry := range entries {
				fetched[entry.Key] = entry.Value
			}
			fetchedMu.Unlock()
		}(group)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, sterrors.UserError{
				Message:    "Failed to fetch compose secrets",
				Details:    err.Error(),
				Suggestion: "Check that the secrets exist under /apps/<namespace>/<service>/secrets/",
				Err:        err,
			}
		}
	}
	return fetched, nil
}

// parentPath strips the final /-delimited component
func parentPath(key string) string {
	if i := strings.LastIndex(key, "/"); i > 0 {
		return key[:i]
	}
	return key
}

// envName derives the environment variable backing a stored secret
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "/", "_"))
}
