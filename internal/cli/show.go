package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"skyblock-prices/internal/app"
)

var (
	showFeed  string
	showLimit int
)

var showCmd = &cobra.Command{
	Use:   "show [entity-id]",
	Short: "Display one entity's stored history, or list known entity ids",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.ShowOptions{
			Feed:  showFeed,
			Limit: showLimit,
		}
		if len(args) == 1 {
			opts.EntityID = args[0]
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showFeed, "feed", "auction", "Feed to read (auction or bazaar)")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of samples to display")
}
