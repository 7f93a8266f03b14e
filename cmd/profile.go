package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/averyhq/avery/internal/profile"
)

func newProfileCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user scheduling profiles",
		Long: `Inspect and update user profiles: timezone, working hours and names.

Profiles merge over defaults (UTC, Monday-Friday 09:00-17:00), so a user
that was never configured still has a complete profile.`,
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for user profile records. Can also use AVERY_DATA_DIR env var. Default: ~/.avery")

	cmd.AddCommand(newProfileListCmd(&dataDir))
	cmd.AddCommand(newProfileShowCmd(&dataDir))
	cmd.AddCommand(newProfileSetTimezoneCmd(&dataDir))
	cmd.AddCommand(newProfileSetHoursCmd(&dataDir))
	cmd.AddCommand(newProfileSetNameCmd(&dataDir))

	return cmd
}

func openStore(dataDir string) (*profile.Store, error) {
	return profile.NewStore(resolveDataDir(dataDir), nil)
}

func newProfileListCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users with persisted records",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dataDir)
			if err != nil {
				return err
			}
			users, err := store.ListUsers()
			if err != nil {
				return err
			}
			if len(users) == 0 {
				cmd.Println("No users found. Run 'avery connect <email>' to add one.")
				return nil
			}
			for _, userID := range users {
				p := store.Profile(userID)
				m := store.EmailMapping(userID)
				cmd.Printf("%s  %s  %s  %s\n",
					userID, p.Display(), p.Timezone, strings.Join(m.OwnedEmails, ","))
			}
			return nil
		},
	}
}

func newProfileShowCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user's profile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dataDir)
			if err != nil {
				return err
			}
			p := store.Profile(args[0])
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
}

func newProfileSetTimezoneCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set-timezone <user-id> <timezone>",
		Short: "Set a user's IANA timezone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dataDir)
			if err != nil {
				return err
			}
			if err := store.SetTimezone(args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Timezone for %s set to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newProfileSetHoursCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set-hours <user-id> <working-hours-json>",
		Short: "Update a user's working hours",
		Long: `Update working hours from a JSON object keyed by lowercase weekday.
Days not mentioned keep their current values.

Example:
  avery profile set-hours user_1 '{"friday": {"enabled": true, "start": "08:00", "end": "12:00"}}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dataDir)
			if err != nil {
				return err
			}
			var hours map[string]profile.DayHours
			if err := json.Unmarshal([]byte(args[1]), &hours); err != nil {
				return fmt.Errorf("invalid working hours JSON: %w", err)
			}
			if err := store.SetWorkingHours(args[0], hours); err != nil {
				return err
			}
			cmd.Printf("Working hours for %s updated (%d day(s))\n", args[0], len(hours))
			return nil
		},
	}
}

func newProfileSetNameCmd(dataDir *string) *cobra.Command {
	var first, last, display, email string

	cmd := &cobra.Command{
		Use:   "set-name <user-id>",
		Short: "Set a user's name fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dataDir)
			if err != nil {
				return err
			}
			if err := store.SetName(args[0], first, last, display, email); err != nil {
				return err
			}
			cmd.Printf("Profile for %s updated\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&display, "display", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Contact email shown in the profile")

	return cmd
}
