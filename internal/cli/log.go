// Package cli implements the pomgrid command-line interface.
//
// This package provides commands for scanning a workspace for Maven POM
// files, aggregating declared dependencies into a version matrix, and
// working with the result: browsing it interactively, serving it over
// HTTP, exporting it as a Graphviz graph, and keeping snapshot history.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - analyze: Scan for pom.xml files and build the dependency matrix
//   - browse: Explore the matrix in an interactive terminal table
//   - serve: Expose the matrix and snapshot history over HTTP
//   - graph: Export the matrix as DOT, SVG, or PNG
//   - history: List saved analysis snapshots
//   - cache: Manage the parsed-descriptor cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI
// struct owns the logger and hands it to the pipeline and server for
// structured progress reporting.
//
// # Example
//
//	import "github.com/pomgrid/pomgrid/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Analyzed 42 POM files (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
