package main

import (
	"github.com/spf13/cobra"

	"github.com/bitcheongmo/sitefeed"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh <collection>",
	Short: "Reload a collection bypassing caches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sitefeed.Dispatch(cmd.Context(), sitefeed.RefreshCollection{Collection: args[0]})
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
