// Command crowdspark drives the CrowdSpark client core from a terminal: it restores the
// session, resolves routes, lists campaigns and streams backing notifications.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	backend  string
	logLevel string
	email    string
	password string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "crowdspark",
		Short:         "CrowdSpark client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.backend, "backend", "", "backend base URL (overrides CROWDSPARK_BACKEND)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.email, "email", "", "log in with this email after the session check")
	pf.StringVar(&opts.password, "password", os.Getenv("CROWDSPARK_PASSWORD"), "password for --email (default $CROWDSPARK_PASSWORD)")

	root.AddCommand(
		newRoutesCmd(opts),
		newWatchCmd(opts),
		newCampaignsCmd(opts),
		newDashboardCmd(opts),
	)
	return root
}
