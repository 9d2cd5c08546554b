package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"value-helper/app"
)

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories and their units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.Initialize(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			categories, err := application.Analysis.Categories(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range categories {
				fmt.Fprintf(out, "%-12s %s (%s)\n", c.Value, c.Label, strings.Join(c.Units, ", "))
			}
			return nil
		},
	}
}
