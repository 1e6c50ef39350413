package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pomgrid/pomgrid/pkg/errors"
	"github.com/pomgrid/pomgrid/pkg/matrix"
	"github.com/pomgrid/pomgrid/pkg/render"
)

// graphFormats is the set of supported graph output formats.
var graphFormats = []string{render.FormatDOT, render.FormatSVG, render.FormatPNG}

// graphCommand creates the graph command, which exports the matrix as a
// Graphviz project → artifact graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [matrix.json]",
		Short: "Export the dependency matrix as a Graphviz graph",
		Long: `Export the dependency matrix as a graph: one node per project, one node
per group:artifact coordinate, and an edge per usage labeled with the
resolved version. Artifacts used at more than one version are
highlighted.

Formats: dot (plain Graphviz source), svg, png.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := c.defaultMatrixPath()
			if len(args) == 1 {
				input = args[0]
			}
			if err := errors.ValidateFormat(format, graphFormats); err != nil {
				return err
			}
			return c.runGraph(input, format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatDOT, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add per-version usage counts to artifact labels")

	return cmd
}

// runGraph reads the matrix, builds DOT, and renders the requested format.
func (c *CLI) runGraph(input, format, output string, detailed bool) error {
	doc, err := matrix.ReadDocumentFile(input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	dot := render.ToDOT(doc, render.Options{Detailed: detailed})

	var data []byte
	switch format {
	case render.FormatDOT:
		data = []byte(dot)
	case render.FormatSVG:
		data, err = render.RenderSVG(dot)
	case render.FormatPNG:
		data, err = render.RenderPNG(dot)
	}
	if err != nil {
		return err
	}
	prog.done("Rendered dependency graph")

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}

	printSuccess("Generated %s graph", format)
	printFile(output)
	return nil
}
