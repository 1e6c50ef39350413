package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pomgrid/pomgrid/pkg/errors"
	"github.com/pomgrid/pomgrid/pkg/store"
)

// historyCommand creates the history command, which lists saved
// analysis snapshots.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved analysis snapshots",
		Long: `List snapshots recorded with analyze --save, newest first.

Snapshots capture when a scan ran, what it scanned, and the headline
counts, so version drift can be tracked over time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open snapshot store")
			}
			defer st.Close(ctx)

			snaps, err := st.List(ctx, limit)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list snapshots")
			}
			if len(snaps) == 0 {
				printInfo("No snapshots saved yet")
				printNextStep("Record one", "pomgrid analyze --save")
				return nil
			}

			printSnapshotTable(snaps)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum snapshots to list (0 for all)")

	return cmd
}

// printSnapshotTable renders snapshots as a table, newest first.
func printSnapshotTable(snaps []*store.Snapshot) {
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			shortID(s.ID),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Root,
			fmt.Sprintf("%d", s.Files),
			fmt.Sprintf("%d", s.Failed),
			fmt.Sprintf("%d", s.Issues),
			fmt.Sprintf("%d", s.Groups),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Created", "Root", "Files", "Failed", "Issues", "Groups").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 3 {
				return numberStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t.Render())
}

// shortID truncates a snapshot UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
