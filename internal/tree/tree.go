// Package tree walks local directory trees and remote key prefixes,
// driving the chunk codec to move whole trees in and out of the
// parameter store.
package tree

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/systmms/ssmtree/internal/chunk"
	sterrors "github.com/systmms/ssmtree/internal/errors"
	"github.com/systmms/ssmtree/internal/logging"
	"github.com/systmms/ssmtree/internal/store"
)

// Engine orchestrates uploads, downloads, copies and env exports against
// one store handle. Operations are sequential: one in-flight store
// request per walk, no rollback on partial failure.
type Engine struct {
	store     store.Store
	logger    *logging.Logger
	chunkSize int
}

// New creates a sync engine bound to a store
func New(s store.Store, logger *logging.Logger, chunkSize int) *Engine {
	return &Engine{
		store:     s,
		logger:    logger,
		chunkSize: chunkSize,
	}
}

// Upload stores every regular file under dir below prefix. Each file's
// key is the trimmed prefix plus its slash-joined relative path; files
// larger than the chunk size become .partN parameter groups. Everything
// is written as SecureString.
func (e *Engine) Upload(ctx context.Context, dir, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "/")
	uploaded := 0

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Symlinks and other special files are excluded, not followed.
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		baseKey := prefix + keyFromPath(rel)
		parts := chunk.Encode(content, baseKey, e.chunkSize)

		e.logger.Debug("Uploading %s as %s (%d part(s))", rel, baseKey, len(parts))
		for _, part := range parts {
			if err := e.store.Put(ctx, store.Entry{
				Key:    part.Key,
				Value:  part.Value,
				Secure: true,
			}); err != nil {
				return err
			}
		}

		uploaded++
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Info("Uploaded %d file(s) from %s to %s", uploaded, dir, prefix)
	return nil
}

// Download reconstructs every parameter under prefix into dir,
// reassembling chunk groups and recreating the relative directory
// structure.
func (e *Engine) Download(ctx context.Context, prefix, dir string) error {
	prefix = strings.TrimSuffix(prefix, "/")

	entries, err := e.store.List(ctx, prefix, true)
	if err != nil {
		return err
	}

	parts := make([]chunk.Part, 0, len(entries))
	for _, entry := range entries {
		rel := strings.TrimPrefix(entry.Key, prefix+"/")
		parts = append(parts, chunk.Part{Key: rel, Value: entry.Value})
	}

	files := chunk.Decode(parts)
	for rel, content := range files {
		if err := writeFile(filepath.Join(dir, filepath.FromSlash(rel)), content); err != nil {
			return err
		}
	}

	e.logger.Info("Downloaded %d file(s) from %s to %s", len(files), prefix, dir)
	return nil
}

// DownloadOne fetches a single fully-qualified parameter and writes it
// to dir under the name's last path component. No chunk reconstruction:
// a single-name fetch addresses exactly one stored value.
func (e *Engine) DownloadOne(ctx context.Context, name, dir string) error {
	entry, err := e.store.Get(ctx, name)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, path.Base(entry.Key))
	if err := writeFile(target, entry.Value); err != nil {
		return err
	}

	e.logger.Info("Downloaded %s to %s", name, target)
	return nil
}

// Copy re-keys every parameter under from to the same suffix under to,
// preserving value and SecureString/String classification. Chunk groups
// are copied as-is; no decode/encode happens.
func (e *Engine) Copy(ctx context.Context, from, to string) error {
	entries, err := e.store.List(ctx, from, true)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		newKey := to + strings.TrimPrefix(entry.Key, from)
		e.logger.Debug("Copying %s to %s", entry.Key, newKey)
		if err := e.store.Put(ctx, store.Entry{
			Key:    newKey,
			Value:  entry.Value,
			Secure: entry.Secure,
		}); err != nil {
			return err
		}
	}

	e.logger.Info("Copied %d parameter(s) from %s to %s", len(entries), from, to)
	return nil
}

// ExportEnv fetches base/<name> for every requested name and overwrites
// file with KEY="value" lines, one per parameter, keyed by the
// upper-cased last path component. Values go inside the quotes verbatim;
// escaping embedded quotes is the caller's problem.
func (e *Engine) ExportEnv(ctx context.Context, base string, vars []string, file string) error {
	base = strings.TrimSuffix(base, "/")

	keys := make([]string, 0, len(vars))
	for _, v := range vars {
		keys = append(keys, base+"/"+v)
	}

	e.logger.Info("Getting vars %v from %s", vars, base)
	entries, err := e.store.GetBatch(ctx, keys)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s=\"%s\"", EnvKey(entry.Key), entry.Value))
	}

	if err := os.WriteFile(file, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		return sterrors.UserError{
			Message:    fmt.Sprintf("Failed to write env file %s", file),
			Details:    err.Error(),
			Suggestion: "Check that the directory exists and is writable",
			Err:        err,
		}
	}

	e.logger.Info("Wrote %d assignment(s) to %s", len(lines), file)
	return nil
}

// EnvKey derives an environment variable name from a parameter key: the
// last /-delimited component, upper-cased.
func EnvKey(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		key = key[i+1:]
	}
	return strings.ToUpper(key)
}

// keyFromPath turns a relative file path into a key suffix, one leading
// slash per path component. The mapping is reversible: downloads rebuild
// the same relative path from the same suffix.
func keyFromPath(rel string) string {
	var sb strings.Builder
	for _, comp := range strings.Split(filepath.ToSlash(rel), "/") {
		sb.WriteString("/")
		sb.WriteString(comp)
	}
	return sb.String()
}

func writeFile(target, content string) error {
	if parent := filepath.Dir(target); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", parent, err)
		}
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
