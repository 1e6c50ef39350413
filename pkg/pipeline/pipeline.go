// Package pipeline provides the core analysis pipeline for pomgrid.
//
// This package implements the complete discover → parse → validate →
// aggregate pipeline that can be used by CLI and server components. By
// centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Discover: Glob the workspace for POM files
//  2. Parse: Read each file into a Descriptor, in parallel, with caching
//  3. Validate: Collect structural consistency issues (optional)
//  4. Aggregate: Fold descriptors into the ordered dependency matrix
//
// Parse failures are per-file and never abort the batch; they are
// collected on the Result. Only a batch that parses nothing at all
// fails as a whole.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Root:     ".",
//	    Pattern:  "**/pom.xml",
//	    Validate: true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Document
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pomgrid/pomgrid/pkg/cache"
	"github.com/pomgrid/pomgrid/pkg/discover"
	"github.com/pomgrid/pomgrid/pkg/errors"
	"github.com/pomgrid/pomgrid/pkg/matrix"
	"github.com/pomgrid/pomgrid/pkg/pom"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultRoot is the directory scanned when none is given.
const DefaultRoot = "."

// DefaultPattern matches every pom.xml under the scan root.
const DefaultPattern = discover.DefaultPattern

// DefaultExcludes skips build output and vendored trees.
var DefaultExcludes = discover.DefaultExcludes

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Discover options
	Root    string `json:"root,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	// Excludes filters discovered paths. nil means DefaultExcludes;
	// pass an empty non-nil slice to disable exclusion entirely.
	Excludes []string `json:"excludes,omitempty"`

	// Parse options
	Workers  int           `json:"workers,omitempty"`
	Refresh  bool          `json:"refresh,omitempty"`
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// Validate options
	Validate bool `json:"validate,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	if err := errors.ValidatePattern(o.Pattern); err != nil {
		return err
	}
	if o.Excludes == nil {
		o.Excludes = DefaultExcludes
	}
	for _, ex := range o.Excludes {
		if err := errors.ValidatePattern(ex); err != nil {
			return err
		}
	}

	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.DefaultTTL
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// ParsedFile pairs a POM path with its parsed descriptor.
type ParsedFile struct {
	Path       string
	Descriptor *pom.Descriptor
	CacheHit   bool
}

// Failure records a per-file parse failure.
type Failure struct {
	Path string
	Err  error
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Files is every discovered POM path, in scan order.
	Files []string

	// Parsed holds the successfully parsed files, in scan order.
	Parsed []ParsedFile

	// Failures holds the files that could not be parsed.
	Failures []Failure

	// Issues holds validation findings. Always informational; issues
	// never fail a run.
	Issues []string

	// Document is the ordered dependency matrix.
	Document *matrix.Document

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks descriptor cache effectiveness.
	CacheInfo CacheInfo
}

// Descriptors returns the parsed descriptors in scan order.
func (r *Result) Descriptors() []*pom.Descriptor {
	out := make([]*pom.Descriptor, len(r.Parsed))
	for i, p := range r.Parsed {
		out[i] = p.Descriptor
	}
	return out
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Discovered int
	Parsed     int
	Failed     int
	Groups     int
	Artifacts  int
	Versions   int

	DiscoverTime  time.Duration
	ParseTime     time.Duration
	ValidateTime  time.Duration
	AggregateTime time.Duration
}

// CacheInfo tracks cache hits for the parse stage.
type CacheInfo struct {
	Hits   int // Descriptors served from cache
	Misses int // Descriptors parsed fresh
}
