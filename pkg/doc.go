// Package pkg provides the core libraries for Pomgrid dependency analysis.
//
// # Overview
//
// Pomgrid scans a workspace for Maven pom.xml files and answers one
// question: which version of each dependency does each project use? The
// pkg directory is organized into four main areas:
//
//  1. Domain logic (POM parsing, property resolution, matrix aggregation)
//  2. Infrastructure (caching, snapshot storage, configuration)
//  3. Orchestration ([pipeline] ties discovery, parsing, and aggregation together)
//  4. Output ([matrix] serialization and [render] graph drawing)
//
// # Architecture
//
// The typical data flow through Pomgrid:
//
//	pom.xml files in a workspace
//	         ↓
//	    [discover] package (glob scan with exclusions)
//	         ↓
//	    [pom] package (parse + property resolution + validation)
//	         ↓
//	    [matrix] package (group → artifact → version → projects)
//	         ↓
//	    JSON document / DOT / SVG / PNG output
//
// # Quick Start
//
// Analyze a workspace and export the dependency matrix:
//
//	import (
//	    "context"
//	    "github.com/pomgrid/pomgrid/pkg/cache"
//	    "github.com/pomgrid/pomgrid/pkg/matrix"
//	    "github.com/pomgrid/pomgrid/pkg/pipeline"
//	)
//
//	// 1. Build a runner (NullCache disables descriptor caching)
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	defer runner.Close()
//
//	// 2. Scan, parse, and aggregate
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Root:     ".",
//	    Validate: true,
//	})
//
//	// 3. Export the matrix document
//	_ = matrix.ExportDocument(result.Document, "output/matrix.json")
//
// # Main Packages
//
// ## Core Domain Logic
//
// [pom] - POM parsing and interpretation. Decodes pom.xml into a
// [pom.Descriptor], resolves ${property} placeholders against the
// project's <properties> block, and validates structural consistency
// (missing coordinates, duplicate dependencies, unresolvable
// placeholders).
//
// [discover] - Workspace scanning. Walks a root directory with a
// doublestar glob pattern, applies exclusion patterns, and returns a
// sorted list of POM paths.
//
// [matrix] - The dependency matrix. Folds descriptors into a
// group → artifact → version → projects structure, orders versions
// with Maven-aware comparison (numeric dotted versions ascending,
// placeholders and "inherited" first), and serializes the document as
// deterministic JSON.
//
// ## Orchestration
//
// [pipeline] - The analysis pipeline (discover → parse → aggregate)
// shared by the CLI and the HTTP server. Handles per-file error
// isolation, bounded parse concurrency, and descriptor caching.
//
// ## Output
//
// [render] - Graph drawing. Converts a [matrix.Document] into Graphviz
// DOT and rasterizes it to SVG or PNG. Artifacts used at more than one
// version are highlighted.
//
// ## Infrastructure
//
// [cache] - Parsed-descriptor cache keyed by path, mtime, and size.
// Three implementations: FileCache (CLI, filesystem), RedisCache
// (shared workspaces), NullCache (caching disabled).
//
// [store] - Snapshot persistence for analysis history. FileStore for
// the CLI, MongoStore for teams, MemoryStore for testing.
//
// [config] - TOML configuration with built-in defaults. Flags override
// config values, config values override defaults.
//
// [errors] - Coded errors with user-facing messages. Every failure
// surfaced by the CLI carries an error code and a short explanation.
//
// [observability] - Process-wide lifecycle hooks for cache and HTTP
// instrumentation.
//
// [buildinfo] - Build version metadata injected at link time.
//
// # Common Workflows
//
// Parse a single POM:
//
//	d, _ := pom.ParseFile("service/pom.xml")
//	props := d.PropertyMap()
//	for _, dep := range d.Dependencies {
//	    version := pom.Resolve(dep.Version, props)
//	    fmt.Println(dep.GroupID, dep.ArtifactID, version)
//	}
//
// Aggregate descriptors without the pipeline:
//
//	m := matrix.Aggregate(descriptors)
//	doc := m.Document()
//
// Draw the matrix as a graph:
//
//	dot := render.ToDOT(doc, render.Options{Detailed: true})
//	png, _ := render.RenderPNG(dot)
//
// Save an analysis snapshot:
//
//	st, _ := store.NewFileStore("")
//	snap := store.NewSnapshot(root, pattern)
//	snap.Matrix, _ = json.Marshal(doc)
//	_ = st.Save(ctx, snap)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/matrix/...    # Specific package
//	go test -run Example        # Examples only
//
// [pom]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/pom
// [pom.Descriptor]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/pom#Descriptor
// [discover]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/discover
// [matrix]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/matrix
// [matrix.Document]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/matrix#Document
// [pipeline]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/render
// [cache]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/cache
// [store]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/store
// [config]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/config
// [errors]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/pomgrid/pomgrid/pkg/buildinfo
package pkg
