package cmd

import (
	"fmt"

	"github.com/psantana5/timekeeper/internal/config"
	"github.com/psantana5/timekeeper/pkg/report"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Timer layout helpers",
}

var layoutValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a YAML timer layout and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := config.LoadLayout(args[0])
		if err != nil {
			return err
		}
		tree, err := l.Build()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d timers\n", args[0], len(tree.Paths()))
		// An untouched tree is all groups, so this prints the bare structure
		return report.WriteTable(cmd.OutOrStdout(), tree.Snapshot(), report.DefaultTableOptions())
	},
}

var layoutDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in demo layout as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.DefaultLayout().Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutValidateCmd)
	layoutCmd.AddCommand(layoutDefaultCmd)
}
