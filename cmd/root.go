package cmd

import (
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	profile  string
	metrics  bool
	logLevel string
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "tc",
		Short:         "TronClass CLI (tc): log in to a TronClass portal and query it",
		Long:          "tc logs in to a TronClass portal through its CAS page (login ticket, captcha, retries), keeps the session alive and queries to-dos, courses and homework from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.profile, "profile", string(domain.DefaultProfileName), "Profile to use")
	rootCmd.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "Print session counters to stderr when the command ends")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	app, err := wireApp(opts)
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newTodosCmd(app),
		newCoursesCmd(app),
		newRecentCmd(app),
		newHomeworkCmd(app),
		newCallCmd(app),
		newProfileCmd(app),
	)

	return rootCmd
}
