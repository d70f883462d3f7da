package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	"github.com/usamajaved138/erp-frontend/internal/utils"
)

func newTreeCommand(opts *globalOptions) *cobra.Command {
	var search string
	var expandAll bool
	var level int

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the chart of accounts as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := openView(cmd, opts)
			if err != nil {
				return err
			}
			defer view.Close()

			switch {
			case expandAll:
				view.ExpandAll()
			case level >= 0:
				view.ExpandToLevel(level)
			}
			// Search last so the path to every match stays open.
			if search != "" {
				view.SetSearch(search)
			}

			return renderTree(cmd.OutOrStdout(), view.Snapshot())
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "show only accounts matching this name, code or type")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand every account")
	cmd.Flags().IntVar(&level, "level", -1, "expand accounts above this depth (0 shows roots only)")

	return cmd
}

// renderTree prints the visible rows, indented by depth.
func renderTree(out io.Writer, snap domain.ChartSnapshot) error {
	if len(snap.Rows) == 0 {
		if snap.SearchTerm != "" {
			_, err := fmt.Fprintf(out, "No accounts match %q.\n", snap.SearchTerm)
			return err
		}
		_, err := fmt.Fprintln(out, "No accounts.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tTYPE\tBALANCE\tID")
	for _, row := range snap.Rows {
		marker := "   "
		if row.HasChildren {
			marker = "[+]"
			if row.Expanded {
				marker = "[-]"
			}
		}
		fmt.Fprintf(tw, "%s%s %s %s\t%s\t%s\t%d\n",
			strings.Repeat("  ", row.Node.LevelNo),
			marker,
			row.Node.AccountCode,
			row.Node.AccountName,
			row.Node.AccountType,
			utils.FormatAmount(row.Node.SubtreeBalance, 2),
			row.Node.AccountID,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if snap.SearchTerm != "" {
		_, err := fmt.Fprintf(out, "\n%d of %d accounts match %q.\n", snap.MatchCount, snap.TotalAccounts, snap.SearchTerm)
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d accounts.\n", snap.TotalAccounts)
	return err
}
