package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream backing notifications for the signed-in campaign owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			rt, err := start(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			if !rt.app.Allowed(routes.AffordanceBackingNotifications) {
				return fmt.Errorf("backing notifications need a campaign owner or admin session (got %s)", rt.app.Store.Snapshot().Role())
			}
			agg := rt.app.Notifications()
			rt.app.Feed.OnAppend(func(b domain.Backing) {
				fmt.Fprintf(out, "#%d %s\n", b.Seq, describeBacking(b))
			})
			fmt.Fprintln(out, "watching for new backings; Ctrl-C to stop")
			<-ctx.Done()

			fmt.Fprintf(out, "%d backings received; most recent:\n", agg.Count())
			for _, b := range agg.Recent() {
				fmt.Fprintf(out, "  #%d %s\n", b.Seq, describeBacking(b))
			}
			return nil
		},
	}
}

func describeBacking(b domain.Backing) string {
	s := fmt.Sprintf("%s backed %s with %.2f", b.Backer, b.CampaignID, b.Amount)
	if b.Message != nil {
		s += fmt.Sprintf(": %q", *b.Message)
	}
	return s
}
