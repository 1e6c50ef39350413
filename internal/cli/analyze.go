package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pomgrid/pomgrid/pkg/config"
	"github.com/pomgrid/pomgrid/pkg/errors"
	"github.com/pomgrid/pomgrid/pkg/matrix"
	"github.com/pomgrid/pomgrid/pkg/pipeline"
	"github.com/pomgrid/pomgrid/pkg/store"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	pattern   string   // glob pattern for POM discovery
	excludes  []string // glob patterns to skip
	outputDir string   // directory for the matrix file
	output    string   // matrix file name
	validate  bool     // report structural consistency issues
	save      bool     // record a snapshot of the run
	noCache   bool     // disable the descriptor cache
	refresh   bool     // bypass cached descriptors
}

// applyConfig fills in options the user did not set on the command line
// from the loaded config file. Explicit flags always win.
func (o *analyzeOpts) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("pattern") && cfg.Pattern != "" {
		o.pattern = cfg.Pattern
	}
	if !flags.Changed("exclude") && cfg.Excludes != nil {
		o.excludes = cfg.Excludes
	}
	if !flags.Changed("output-dir") && cfg.OutputDir != "" {
		o.outputDir = cfg.OutputDir
	}
	if !flags.Changed("output") && cfg.Output != "" {
		o.output = cfg.Output
	}
}

// analyzeCommand creates the analyze command, the main entry point of
// the tool: scan, parse, aggregate, write the matrix.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{
		pattern:   pipeline.DefaultPattern,
		outputDir: defaultOutputDir,
		output:    defaultOutputFile,
	}

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Scan for POM files and build the dependency matrix",
		Long: `Scan a directory tree for Maven pom.xml files and fold every declared
dependency into a group → artifact → version matrix.

Each POM is parsed into a descriptor, ${property} placeholders in
dependency versions are resolved against the file's own properties, and
version-less dependencies are recorded as "inherited". The matrix is
written as deterministically ordered JSON.

Files that fail to parse are reported and skipped; the run only fails
when nothing could be parsed at all.

Examples:
  pomgrid analyze                          # scan the current directory
  pomgrid analyze ~/work/platform          # scan another workspace
  pomgrid analyze -p 'services/**/pom.xml' # narrow the scan
  pomgrid analyze --validate --save        # report issues, keep a snapshot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := pipeline.DefaultRoot
			if len(args) == 1 {
				root = args[0]
			}
			opts.applyConfig(cmd, c.cfg)
			return c.runAnalyze(cmd.Context(), root, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", opts.pattern, "glob pattern for POM files")
	cmd.Flags().StringArrayVar(&opts.excludes, "exclude", nil, "glob pattern to skip (repeatable)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", opts.outputDir, "directory for the matrix file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "matrix file name")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "report structural consistency issues")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save a snapshot of this run")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the descriptor cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-parse every file, bypassing cached descriptors")

	return cmd
}

// runAnalyze executes the pipeline and writes the matrix.
func (c *CLI) runAnalyze(ctx context.Context, root string, opts *analyzeOpts) error {
	outputPath := filepath.Join(opts.outputDir, opts.output)
	if err := errors.ValidateOutputPath(outputPath); err != nil {
		return err
	}

	runner := c.newRunner(ctx, root, opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Root:     root,
		Pattern:  opts.pattern,
		Excludes: opts.excludes,
		Refresh:  opts.refresh,
		CacheTTL: c.cfg.Cache.TTL.Std(),
		Validate: opts.validate,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d POM files", result.Stats.Parsed))

	c.reportFiles(result)
	reportFailures(result)
	reportIssues(result)

	if err := matrix.ExportDocument(result.Document, outputPath); err != nil {
		return err
	}

	printNewline()
	printSuccess("Wrote dependency matrix")
	printFile(outputPath)
	printStats(result.Stats.Groups, result.Stats.Artifacts, result.Stats.Versions, result.CacheInfo.Hits > 0)

	if opts.save {
		if err := c.saveSnapshot(ctx, root, opts.pattern, result); err != nil {
			return err
		}
	}

	printNewline()
	printNextStep("Browse the matrix", fmt.Sprintf("pomgrid browse %s", outputPath))
	printNextStep("Serve it over HTTP", fmt.Sprintf("pomgrid serve --input %s", outputPath))
	return nil
}

// reportFiles prints one line per parsed POM. With --verbose the
// dependency, managed, and property counts are added per file.
func (c *CLI) reportFiles(result *pipeline.Result) {
	verbose := c.Logger.GetLevel() <= log.DebugLevel
	for _, p := range result.Parsed {
		d := p.Descriptor
		printInfo("%s %s", StyleHighlight.Render(d.ProjectName()), StyleDim.Render(p.Path))
		if verbose {
			printDetail("%d dependencies · %d managed · %d properties",
				len(d.Dependencies), len(d.Managed), len(d.Properties))
		}
	}
}

// reportFailures prints one error line per file that could not be parsed.
func reportFailures(result *pipeline.Result) {
	for _, f := range result.Failures {
		printError("%s: %s", f.Path, errors.UserMessage(f.Err))
	}
}

// reportIssues prints validation findings with warning styling. Issues
// are informational and never fail the run.
func reportIssues(result *pipeline.Result) {
	if len(result.Issues) == 0 {
		return
	}
	printNewline()
	printWarning("%d validation issues", len(result.Issues))
	for _, issue := range result.Issues {
		printDetail("%s", issue)
	}
}

// saveSnapshot records the run in the snapshot store.
func (c *CLI) saveSnapshot(ctx context.Context, root, pattern string, result *pipeline.Result) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open snapshot store")
	}
	defer st.Close(ctx)

	payload, err := json.Marshal(result.Document)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode matrix for snapshot")
	}

	snap := store.NewSnapshot(root, pattern)
	snap.Files = result.Stats.Parsed
	snap.Failed = result.Stats.Failed
	snap.Issues = len(result.Issues)
	snap.Groups = result.Stats.Groups
	snap.Matrix = payload

	if err := st.Save(ctx, snap); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save snapshot")
	}
	printSuccess("Saved snapshot %s", StyleHighlight.Render(snap.ID))
	return nil
}
