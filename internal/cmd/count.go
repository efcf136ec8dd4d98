package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/toolbelt/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the toolbelt CLI.
// It provides file counting functionality for directory trees.
func NewCountCmd() *cobra.Command {
	var (
		path  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count files in a directory tree",
		Long: `Count the total number of files in a directory tree and their combined size.

This is a utility command that recursively walks through a directory
and counts all files (excluding directories). Useful for sizing an
archive before creating it. With --limit the walk stops once more than
that many files are found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			return runCount(cmd.OutOrStdout(), util.ShellExpand(path), limit)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop counting after this many files (0 for no limit)")

	return cmd
}

func runCount(out io.Writer, path string, limit int) error {
	stats, over, err := util.CountTree(path, limit)
	if err != nil {
		return fmt.Errorf("counting files: %w", err)
	}

	if over {
		fmt.Fprintf(out, "More than %s files\n", humanize.Comma(int64(limit)))
		return nil
	}
	fmt.Fprintf(out, "Total files: %s\n", humanize.Comma(int64(stats.Files)))
	fmt.Fprintf(out, "Total size: %s\n", util.BytesAsHumanReadable(stats.Bytes))
	return nil
}
