package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/bnema/tronclass-cli/internal/application"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/spf13/cobra"
)

const maxPasswordBytes = 4096

var errEmptyPassword = errors.New("password from stdin is empty")

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage portal profiles",
	}

	cmd.AddCommand(
		newProfileListCmd(app),
		newProfileSetCmd(app),
		newProfileRemoveCmd(app),
	)

	return cmd
}

func newProfileListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := app.profiles.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured.")
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tBASE URL\tUSERNAME\tRPM")
			for _, profile := range profiles {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					profile.Name,
					profile.BaseURL,
					sanitizeForTerminal(profile.Username),
					app.cfg.RPM(profile),
				)
			}
			return tw.Flush()
		},
	}
}

func newProfileSetCmd(app *app) *cobra.Command {
	var name string
	var baseURL string
	var username string
	var passwordRef string
	var rpm int
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update a profile",
		Long:  "Creates or updates a profile. With --password-stdin the password is read from stdin and stored in the secret store (pass first, file fallback) under --password-ref.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				name = app.opts.profile
			}

			setCmd := application.SetProfileCommand{
				Name:        domain.ProfileName(name),
				BaseURL:     baseURL,
				Username:    username,
				PasswordRef: passwordRef,
			}
			if cmd.Flags().Changed("rpm") {
				setCmd.FetcherRPM = &rpm
			}
			if passwordStdin {
				password, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				setCmd.Password = &password
			}

			profile, err := app.profiles.SetProfile(cmd.Context(), setCmd)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", profile.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name (default: --profile)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Portal base URL, e.g. https://tronclass.example.edu.tw")
	cmd.Flags().StringVar(&username, "username", "", "Login username")
	cmd.Flags().StringVar(&passwordRef, "password-ref", "", "Secret store key of the password (default: tronclass/<name>/password)")
	cmd.Flags().IntVar(&rpm, "rpm", 0, "Requests per minute for this profile (0 uses fetcher_rpm)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin and store it")

	return cmd
}

func newProfileRemoveCmd(app *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a profile and its stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.profiles.RemoveProfile(cmd.Context(), application.RemoveProfileCommand{Name: domain.ProfileName(name)}); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %s\n", name)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func readPassword(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxPasswordBytes))
	if err != nil {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}

	password := strings.TrimRight(string(raw), "\r\n")
	if password == "" {
		return "", errEmptyPassword
	}

	return password, nil
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
