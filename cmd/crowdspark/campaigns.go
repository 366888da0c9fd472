package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

func newCampaignsCmd(opts *rootOptions) *cobra.Command {
	var category, search string
	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "List campaigns, optionally filtered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := start(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			cat := rt.app.NewCatalog()
			defer cat.Close()
			if err := cat.Load(cmd.Context()); err != nil {
				return fmt.Errorf("list campaigns: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tRAISED\tGOAL\tPROGRESS\tOWNER")
			for _, c := range cat.Filter(domain.Category(category), search) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.0f%%\t%s\n",
					c.ID, c.Title, c.Category, c.RaisedAmount, c.GoalAmount, c.Progress(), c.OwnerName())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryAll), "category filter")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title search")
	return cmd
}
