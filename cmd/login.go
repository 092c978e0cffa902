package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to the portal and report the result",
		Long:  "Runs the CAS login flow for the selected profile (login ticket, captcha, form submission) with retries, then reports the outcome.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(_ context.Context, ps *portalSession) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", ps.session.BaseURL(), ps.target.Credentials.Username)
				return err
			})
		},
	}
}
