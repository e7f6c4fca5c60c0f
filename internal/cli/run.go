package cli

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the price watcher service",
	Long: `Fetch the auction and bazaar feeds on a fixed interval, persist one
price row per catalog entry per cycle, and rank recent movers. Runs until
interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Run(cmd.Context())
	},
}
