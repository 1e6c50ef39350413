// Package cli implements the pomgrid command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pomgrid/pomgrid/pkg/buildinfo"
	"github.com/pomgrid/pomgrid/pkg/cache"
	"github.com/pomgrid/pomgrid/pkg/config"
	"github.com/pomgrid/pomgrid/pkg/pipeline"
	"github.com/pomgrid/pomgrid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pomgrid"

	// defaultOutputDir is where analyze writes results unless overridden.
	defaultOutputDir = "output"

	// defaultOutputFile is the matrix file name inside the output dir.
	defaultOutputFile = "matrix.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg     *config.Config
	cfgPath string
}

// New creates a new CLI instance with a default logger and default
// configuration. Call LoadConfig to pick up a pomgrid.toml.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfig loads configuration from path, or from the standard
// locations when path is empty. Flags still override loaded values.
func (c *CLI) LoadConfig(path string) error {
	cfg, loadedPath, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.cfgPath = loadedPath
	if loadedPath != "" {
		c.Logger.Debug("loaded config", "path", loadedPath)
	}
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pomgrid",
		Short:        "Pomgrid maps Maven dependency versions across a workspace",
		Long:         `Pomgrid scans a directory tree for Maven pom.xml files and folds every declared dependency into a group → artifact → version matrix, making version drift between projects visible at a glance.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the cache backend selected by
// configuration. A Redis address in config picks the shared cache with
// keys scoped to the workspace root; otherwise the local file cache is
// used. Cache setup failures degrade to the null cache instead of
// failing the run.
func (c *CLI) newRunner(ctx context.Context, root string, noCache bool) *pipeline.Runner {
	if noCache || !c.cfg.Cache.Enabled {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	}

	if addr := c.cfg.Cache.Redis; addr != "" {
		rd, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.WorkspacePrefix(root))
			return pipeline.NewRunner(rd, keyer, c.Logger)
		}
		c.Logger.Warn("redis cache unavailable, using local file cache", "addr", addr, "err", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	}
	return pipeline.NewRunner(fc, nil, c.Logger)
}

// newStore opens the snapshot store selected by configuration: MongoDB
// when a URI is configured, the local file store otherwise.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if uri := c.cfg.Store.URI; uri != "" {
		return store.NewMongoStore(ctx, uri, c.cfg.Store.Database)
	}
	return store.NewFileStore("")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pomgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultMatrixPath is where browse/serve/graph look for the matrix when
// no input is given: the analyze command's default output location.
func (c *CLI) defaultMatrixPath() string {
	dir := c.cfg.OutputDir
	if dir == "" {
		dir = defaultOutputDir
	}
	file := c.cfg.Output
	if file == "" {
		file = defaultOutputFile
	}
	return filepath.Join(dir, file)
}
