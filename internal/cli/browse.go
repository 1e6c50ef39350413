package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pomgrid/pomgrid/pkg/matrix"
)

// browseCommand creates the browse command, an interactive table over
// the flattened matrix rows.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [matrix.json]",
		Short: "Browse the dependency matrix interactively",
		Long: `Browse the dependency matrix in an interactive terminal table.

Each row is one (group, artifact, version) cell with the projects that
use it. Artifacts recorded at more than one version are highlighted as
version drift candidates.

Reads output/matrix.json unless another file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := c.defaultMatrixPath()
			if len(args) == 1 {
				input = args[0]
			}

			doc, err := matrix.ReadDocumentFile(input)
			if err != nil {
				return err
			}
			rows := flattenDocument(doc)
			if len(rows) == 0 {
				printInfo("Matrix is empty")
				return nil
			}

			p := tea.NewProgram(newMatrixModel(rows, input))
			_, err = p.Run()
			return err
		},
	}
}

// browseRow is one flattened matrix cell shown in the table.
type browseRow struct {
	group    string
	artifact string
	version  string
	projects string
	drift    bool // artifact is recorded at more than one version
}

// flattenDocument turns the nested document into table rows, preserving
// document order.
func flattenDocument(doc *matrix.Document) []browseRow {
	var rows []browseRow
	for _, g := range doc.Groups {
		for _, a := range g.Artifacts {
			drift := len(a.Versions) > 1
			for _, v := range a.Versions {
				rows = append(rows, browseRow{
					group:    g.GroupID,
					artifact: a.ArtifactID,
					version:  v.Version,
					projects: strings.Join(v.Projects, ", "),
					drift:    drift,
				})
			}
		}
	}
	return rows
}

// =============================================================================
// MatrixModel - Interactive matrix table
// =============================================================================

// MatrixModel is the bubbletea model for browsing matrix rows.
type MatrixModel struct {
	Rows   []browseRow
	Source string
	Cursor int
	Height int
	Offset int
}

// newMatrixModel creates a model over the flattened rows.
func newMatrixModel(rows []browseRow, source string) MatrixModel {
	return MatrixModel{
		Rows:   rows,
		Source: source,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m MatrixModel) Init() tea.Cmd {
	return nil
}

func (m MatrixModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor = 0
			m.Offset = 0
		case "G":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m MatrixModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dependency Matrix"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(m.Source))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  g/G jump  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.group, r.artifact, r.version, r.projects})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Group", "Artifact", "Version", "Projects").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 3 && r.drift {
				base = base.Foreground(colorYellow)
			} else if col == 3 && r.version == matrix.VersionInherited {
				base = base.Foreground(colorDim)
			} else if col == 4 {
				base = base.Foreground(colorGray)
			} else {
				base = base.Foreground(colorWhite)
			}

			if isCurrent {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
