package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes PATH...",
		Short: "Resolve paths against the current session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := start(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			snap := rt.app.Store.Snapshot()
			fmt.Fprintf(out, "session: %s\n", describeSession(snap.Role(), snap.UserID()))
			for _, p := range args {
				res := rt.app.Navigate(p)
				fmt.Fprintf(out, "%s\t%s\n", p, describeResolution(res))
			}
			return nil
		},
	}
}

func describeSession(role domain.Role, id domain.UserID) string {
	if id == "" {
		return string(role)
	}
	return fmt.Sprintf("%s (%s)", role, id)
}

func describeResolution(res routes.Resolution) string {
	var b strings.Builder
	for _, hop := range res.Hops {
		b.WriteString(hop)
		b.WriteString(" -> ")
	}
	d := res.Decision
	switch d.Outcome {
	case routes.OutcomeRender:
		b.WriteString(res.Path)
		if d.Param != "" {
			fmt.Fprintf(&b, " (id=%s)", d.Param)
		}
	case routes.OutcomeNotFound:
		b.WriteString("not found")
	case routes.OutcomeBlank:
		b.WriteString("blank (session check pending)")
	default:
		fmt.Fprintf(&b, "%s (unresolved redirect)", res.Path)
	}
	return b.String()
}
