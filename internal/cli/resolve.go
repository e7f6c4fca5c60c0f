package cli

import (
	"github.com/spf13/cobra"
)

var resolveCategory string

var resolveCmd = &cobra.Command{
	Use:   "resolve <raw-name>",
	Short: "Run a raw listing name through the normalization pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Resolve(args[0], resolveCategory)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveCategory, "category", "misc", "Listing category (armor, weapon, or misc)")
}
