package cmd

import (
	"github.com/spf13/cobra"

	"github.com/averyhq/avery/internal/google"
	"github.com/averyhq/avery/internal/identity"
	"github.com/averyhq/avery/internal/profile"
)

func newAccountsCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List connected Google accounts",
		Long: `List the Google accounts with stored tokens and the user each one
belongs to. An account without an owning user has a token but no email
mapping; reconnect it with 'avery connect' to attach it to a user.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emails, err := google.ConnectedEmails()
			if err != nil {
				return err
			}
			if len(emails) == 0 {
				cmd.Println("No connected accounts")
				return nil
			}

			store, err := profile.NewStore(resolveDataDir(dataDir), nil)
			if err != nil {
				return err
			}
			resolver := identity.NewResolver(store, nil)

			for _, email := range emails {
				if userID, err := resolver.Resolve(email); err == nil {
					cmd.Printf("%s\tuser %s\n", email, userID)
				} else {
					cmd.Printf("%s\t(no user)\n", email)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for user profile records. Can also use AVERY_DATA_DIR env var. Default: ~/.avery")

	return cmd
}
