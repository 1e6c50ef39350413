package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pomgrid/pomgrid/pkg/cache"
	"github.com/pomgrid/pomgrid/pkg/discover"
	"github.com/pomgrid/pomgrid/pkg/errors"
	"github.com/pomgrid/pomgrid/pkg/matrix"
	"github.com/pomgrid/pomgrid/pkg/observability"
	"github.com/pomgrid/pomgrid/pkg/pom"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete discover → parse → validate → aggregate pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Discover
	discoverStart := time.Now()
	observability.Pipeline().OnDiscoverStart(ctx, opts.Root, opts.Pattern)
	files, err := discover.Discover(opts.Root, opts.Pattern, opts.Excludes)
	result.Stats.DiscoverTime = time.Since(discoverStart)
	observability.Pipeline().OnDiscoverComplete(ctx, opts.Root, len(files), result.Stats.DiscoverTime, err)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Stats.Discovered = len(files)

	r.Logger.Info("discovered pom files",
		"root", opts.Root,
		"files", len(files),
		"duration", result.Stats.DiscoverTime)

	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeNoInput,
			"no POM files matched pattern %q under %s", opts.Pattern, opts.Root)
	}

	// Stage 2: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, len(files))
	parsed, failures, info, err := r.parseAll(ctx, files, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Parsed = parsed
	result.Failures = failures
	result.CacheInfo = info
	result.Stats.Parsed = len(parsed)
	result.Stats.Failed = len(failures)
	result.Stats.ParseTime = time.Since(parseStart)
	observability.Pipeline().OnParseComplete(ctx, len(parsed), len(failures), result.Stats.ParseTime)

	r.Logger.Info("parsed descriptors",
		"parsed", len(parsed),
		"failed", len(failures),
		"cache_hits", info.Hits,
		"duration", result.Stats.ParseTime)

	if len(parsed) == 0 {
		return nil, errors.New(errors.ErrCodeNoInput,
			"none of the %d POM files could be parsed", len(files))
	}

	// Stage 3: Validate (optional, issues are informational)
	if opts.Validate {
		validateStart := time.Now()
		for _, p := range parsed {
			result.Issues = append(result.Issues, pom.Validate(p.Descriptor, p.Path)...)
		}
		result.Stats.ValidateTime = time.Since(validateStart)

		r.Logger.Info("validated descriptors",
			"descriptors", len(parsed),
			"issues", len(result.Issues),
			"duration", result.Stats.ValidateTime)
	}

	// Stage 4: Aggregate
	aggregateStart := time.Now()
	observability.Pipeline().OnAggregateStart(ctx, len(parsed))
	m := matrix.Aggregate(result.Descriptors())
	result.Document = m.Document()
	result.Stats.Groups, result.Stats.Artifacts, result.Stats.Versions = result.Document.Counts()
	result.Stats.AggregateTime = time.Since(aggregateStart)
	observability.Pipeline().OnAggregateComplete(ctx,
		result.Stats.Groups, result.Stats.Artifacts, result.Stats.Versions, result.Stats.AggregateTime)

	r.Logger.Info("aggregated dependency matrix",
		"groups", result.Stats.Groups,
		"artifacts", result.Stats.Artifacts,
		"versions", result.Stats.Versions,
		"duration", result.Stats.AggregateTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
