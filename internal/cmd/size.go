package cmd

import (
	"fmt"

	"github.com/dendrascience/toolbelt/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewSizeCmd creates the size subcommand, which prints byte counts in
// human-readable form.
func NewSizeCmd() *cobra.Command {
	var iec bool

	cmd := &cobra.Command{
		Use:   "size N...",
		Short: "Format byte counts as human-readable sizes",
		Long: `Print each N as a human-readable size.

The default uses decimal units with two decimals (1000 B = 1.00KB) and stops
at PB. --iec prints binary units instead (1024 B = 1.0 KiB). N may be a plain
count or carry a unit, such as 1.5GB or 20MiB.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				n, err := humanize.ParseBytes(arg)
				if err != nil {
					return fmt.Errorf("parsing size %q: %w", arg, err)
				}
				if iec {
					fmt.Fprintln(out, humanize.IBytes(n))
				} else {
					fmt.Fprintln(out, util.BytesAsHumanReadable(n))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&iec, "iec", false, "Use binary (KiB, MiB, ...) units")

	return cmd
}
