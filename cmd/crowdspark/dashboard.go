package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kunall-01/crowdspark-frontend/internal/app/dashboard"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var requestUpgrade bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the signed-in user's dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := start(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			if res := rt.app.Navigate(routes.Dashboard); res.Path != routes.Dashboard {
				return fmt.Errorf("dashboard unavailable: redirected to %s", res.Path)
			}
			v := rt.app.NewDashboard()
			v.Mount(cmd.Context())
			defer v.Unmount()

			if requestUpgrade {
				if err := v.RequestUpgrade(cmd.Context()); err != nil {
					return err
				}
			}

			st := v.State()
			fmt.Fprintln(out, st.Greeting)
			if st.ShowOwnerSection {
				fmt.Fprintln(out, "Your campaigns:")
				for _, c := range st.Campaigns {
					fmt.Fprintf(out, "  %s  %.2f / %.2f (%.0f%%)\n", c.Title, c.RaisedAmount, c.GoalAmount, c.Progress())
				}
			}
			fmt.Fprintln(out, "Your contributions:")
			for _, c := range st.Contributions {
				line := fmt.Sprintf("  %s  %.2f  %s", c.Title, c.Amount, dashboard.DateLabel(c))
				if u := v.InvoiceURL(c); u != "" {
					line += "  " + u
				}
				fmt.Fprintln(out, line)
			}
			if st.ShowUpgradePanel {
				switch {
				case st.RequestStatus != "":
					fmt.Fprintln(out, st.RequestStatus)
				case st.UpgradeRequested:
					fmt.Fprintln(out, "Campaign owner request pending")
				default:
					fmt.Fprintln(out, "Run with --request-upgrade to ask for campaign owner access")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&requestUpgrade, "request-upgrade", false, "ask an admin for campaign owner access")
	return cmd
}
