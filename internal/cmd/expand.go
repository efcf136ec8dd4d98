package cmd

import (
	"fmt"

	"github.com/dendrascience/toolbelt/util"
	"github.com/spf13/cobra"
)

// NewExpandCmd creates the expand subcommand, which applies tilde expansion.
func NewExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand PATH...",
		Short: "Replace ~ with $HOME in each path",
		Long: `Print each PATH with every ~ replaced by the value of $HOME.

Paths are left untouched when HOME is unset or not valid UTF-8.
Quote the argument so the shell does not expand it first.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range args {
				fmt.Fprintln(cmd.OutOrStdout(), util.ShellExpand(p))
			}
		},
	}
}
