package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bnema/tronclass-cli/internal/application"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/spf13/cobra"
)

const maxCallOutputBytes = 16 << 20

func newCallCmd(app *app) *cobra.Command {
	var method string
	var data string

	cmd := &cobra.Command{
		Use:   "call <endpoint>",
		Short: "Send an authenticated request and print the raw response body",
		Long:  "Sends a request to an endpoint relative to the profile base URL (for example api/todos) through the logged-in session and prints the response body.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := args[0]
			return app.withSession(cmd, func(ctx context.Context, ps *portalSession) error {
				opts := []application.CallOption{application.WithMethod(method)}
				if data != "" {
					opts = append(opts,
						application.WithBody(strings.NewReader(data)),
						application.WithHeader("Content-Type", "application/json"),
					)
				}

				resp, err := ps.session.Call(ctx, endpoint, opts...)
				if err != nil {
					return err
				}
				defer func() { _ = resp.Body.Close() }()

				body, err := io.ReadAll(io.LimitReader(resp.Body, maxCallOutputBytes))
				if err != nil {
					return fmt.Errorf("read response: %w", err)
				}

				if _, err := cmd.OutOrStdout().Write(body); err != nil {
					return err
				}
				if resp.StatusCode < 200 || resp.StatusCode >= 300 {
					return &domain.APIStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&method, "method", http.MethodGet, "HTTP method")
	cmd.Flags().StringVar(&data, "data", "", "JSON request body")

	return cmd
}
