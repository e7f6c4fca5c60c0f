package app

import (
	"fmt"
	"os"

	"skyblock-prices/internal/normalize"
)

// Resolve runs one raw listing name through the normalization pipeline and
// prints the outcome. Useful when tuning the override table.
func (a *App) Resolve(rawName, category string) error {
	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}

	resolver := normalize.NewResolver(cat)
	res := resolver.Resolve(rawName, category)

	fmt.Fprintf(os.Stdout, "raw:       %q\n", rawName)
	fmt.Fprintf(os.Stdout, "sanitized: %q\n", res.Sanitized)
	if !res.Resolved {
		fmt.Fprintln(os.Stdout, "resolved:  no (name would be skipped)")
		return nil
	}
	display, _ := cat.DisplayName(res.ID)
	fmt.Fprintf(os.Stdout, "resolved:  %s (%s)\n", res.ID, display)
	return nil
}
