package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/navigation"
	"github.com/spec-kit/backoffice/internal/tui"
)

var menuExpandAll bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes registered for the session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTITLE\tPATH")
		for _, r := range client.Router.Routes() {
			path := r.Path
			if path == "" {
				path = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Title, path)
		}
		return tw.Flush()
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the navigation drawer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		if menuExpandAll {
			expandAll(client.Drawer, client.Drawer.Tree())
		}
		out := cmd.OutOrStdout()
		for _, row := range client.Drawer.Rows() {
			fmt.Fprintln(out, formatRow(row))
		}
		return nil
	},
}

var drawerCmd = &cobra.Command{
	Use:   "drawer",
	Short: "Browse modules interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		p := tea.NewProgram(tui.NewDrawerModel(client),
			tea.WithContext(cmd.Context()),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		_, err := p.Run()
		return err
	},
}

func init() {
	menuCmd.Flags().BoolVar(&menuExpandAll, "expand", false, "expand every group")
	rootCmd.AddCommand(routesCmd, menuCmd, drawerCmd)
}

func expandAll(d *navigation.Drawer, nodes []domain.ModuleNode) {
	for _, n := range nodes {
		if n.IsGroup() {
			if !d.Expanded(n.Name) {
				d.ToggleExpand(n.Name)
			}
			expandAll(d, n.Children)
		}
	}
}

func formatRow(row navigation.Row) string {
	marker := " "
	switch {
	case row.Group && row.Expanded:
		marker = "▾"
	case row.Group:
		marker = "▸"
	case row.Active:
		marker = "*"
	}
	line := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", row.Depth), marker, row.Glyph, row.Node.Label())
	if row.Node.Path != "" {
		line += "  " + row.Node.Path
	}
	return line
}
