package pipeline

import (
	"context"
	"encoding/json"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/pomgrid/pomgrid/pkg/observability"
	"github.com/pomgrid/pomgrid/pkg/pom"
)

// descriptorKeyType tags cache hook events from the parse stage.
const descriptorKeyType = "pom"

// parseAll parses every file concurrently, bounded by opts.Workers.
// Results keep the input (scan) order regardless of completion order.
// Per-file failures are collected, not returned; only context
// cancellation aborts the batch.
func (r *Runner) parseAll(ctx context.Context, files []string, opts Options) ([]ParsedFile, []Failure, CacheInfo, error) {
	type outcome struct {
		descriptor *pom.Descriptor
		hit        bool
		err        error
	}
	outcomes := make([]outcome, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, hit, err := r.parseOne(ctx, path, opts)
			outcomes[i] = outcome{descriptor: d, hit: hit, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, CacheInfo{}, err
	}

	parsed := make([]ParsedFile, 0, len(files))
	var failures []Failure
	var info CacheInfo
	for i, path := range files {
		o := outcomes[i]
		if o.err != nil {
			opts.Logger.Debug("parse failed", "path", path, "err", o.err)
			failures = append(failures, Failure{Path: path, Err: o.err})
			continue
		}
		if o.hit {
			info.Hits++
		} else {
			info.Misses++
		}
		parsed = append(parsed, ParsedFile{Path: path, Descriptor: o.descriptor, CacheHit: o.hit})
	}
	return parsed, failures, info, nil
}

// parseOne parses a single POM file with caching and reports whether the
// descriptor came from cache.
func (r *Runner) parseOne(ctx context.Context, path string, opts Options) (*pom.Descriptor, bool, error) {
	// The key binds the entry to the file's current mtime and size, so a
	// stat failure just disables caching for this file.
	var key string
	if fi, err := os.Stat(path); err == nil {
		key = r.Keyer.DescriptorKey(path, fi.ModTime(), fi.Size())
	}

	// Try cache first (unless refresh requested)
	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var d pom.Descriptor
			if err := json.Unmarshal(data, &d); err == nil {
				opts.Logger.Debug("descriptor cache hit", "path", path)
				observability.Cache().OnCacheHit(ctx, descriptorKeyType)
				return &d, true, nil // Cache hit
			}
			// If deserialization fails, fall through to reparse
		}
		observability.Cache().OnCacheMiss(ctx, descriptorKeyType)
	}

	d, err := pom.ParseFile(path)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if key != "" && !opts.Refresh {
		if data, err := json.Marshal(d); err == nil {
			_ = r.Cache.Set(ctx, key, data, opts.CacheTTL)
			observability.Cache().OnCacheSet(ctx, descriptorKeyType, len(data))
		}
	}

	return d, false, nil // Cache miss
}
