package cli

import (
	"github.com/spf13/cobra"

	"skyblock-prices/internal/app"
)

var (
	moversBaseline int
	moversTopK     int
)

var moversCmd = &cobra.Command{
	Use:   "movers",
	Short: "Rank the biggest recent price movers across both feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.MoversOptions{
			BaselineCount: moversBaseline,
			TopK:          moversTopK,
		}

		return getApp().Movers(cmd.Context(), opts)
	},
}

func init() {
	moversCmd.Flags().IntVar(&moversBaseline, "baseline", 0, "Baseline samples per entity (defaults to config)")
	moversCmd.Flags().IntVar(&moversTopK, "top", 0, "Number of movers to display (defaults to config)")
}
