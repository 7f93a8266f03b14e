package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/google"
	"github.com/averyhq/avery/internal/identity"
	"github.com/averyhq/avery/internal/profile"
)

// resolveDataDir picks the profile data directory: flag value, then the
// AVERY_DATA_DIR env var, then ~/.avery.
func resolveDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv("AVERY_DATA_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".avery")
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	// Windows fallback
	return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
}

func newConnectCmd() *cobra.Command {
	var (
		dataDir  string
		userID   string
		authCode string
	)

	cmd := &cobra.Command{
		Use:   "connect <email>",
		Short: "Connect a Google account for calendar and email access",
		Long: `Authorize access to a Google account and register it with a user.

Without --auth-code, an authorization URL is printed; visit it, grant
access, and paste the resulting code when prompted.

The account is attached to an existing user when the email is already
owned or when --user is given; otherwise a new user is created. The
account's primary calendar is added to the user's calendar selection.

Requires AVERY_GOOGLE_CLIENT_ID and AVERY_GOOGLE_CLIENT_SECRET.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(cmd.Context(), args[0], dataDir, userID, authCode, cmd)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for user profile records. Can also use AVERY_DATA_DIR env var. Default: ~/.avery")
	cmd.Flags().StringVar(&userID, "user", "", "Attach the account to an existing user ID instead of creating a new user")
	cmd.Flags().StringVar(&authCode, "auth-code", "", "Authorization code from a previously printed auth URL (skips the interactive prompt)")

	return cmd
}

func runConnect(ctx context.Context, email, dataDir, userID, authCode string, cmd *cobra.Command) error {
	if authCode == "" {
		authURL, err := google.AuthURL()
		if err != nil {
			return err
		}
		cmd.Printf("Visit the following URL to authorize %s:\n\n  %s\n\n", email, authURL)
		cmd.Print("Enter the authorization code: ")

		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() {
			return fmt.Errorf("no authorization code provided")
		}
		authCode = strings.TrimSpace(scanner.Text())
		if authCode == "" {
			return fmt.Errorf("no authorization code provided")
		}
	}

	if err := google.SaveToken(ctx, email, authCode); err != nil {
		return fmt.Errorf("failed to authorize account: %w", err)
	}

	store, err := profile.NewStore(resolveDataDir(dataDir), nil)
	if err != nil {
		return err
	}
	resolver := identity.NewResolver(store, nil)

	// Reconnecting an already-owned email keeps its user.
	if existing, err := resolver.Resolve(email); err == nil {
		if userID != "" && userID != existing {
			return fmt.Errorf("email already belongs to user %s", existing)
		}
		userID = existing
	} else if userID == "" {
		userID = uuid.NewString()
	}

	if err := store.AddEmail(userID, email); err != nil {
		return fmt.Errorf("failed to register account: %w", err)
	}

	// Seed the calendar selection with the account's primary calendar so
	// availability checks work before any explicit selection is made.
	if client, err := calendar.NewClient(ctx, email); err == nil {
		if selfCals, err := resolver.SelfCalendars(ctx, email, client); err == nil {
			selection := append(store.SelectedCalendars(userID), selfCals...)
			if err := store.SaveCalendarSelection(userID, dedupe(selection)); err != nil {
				cmd.PrintErrf("Warning: failed to save calendar selection: %v\n", err)
			}
		}
	}

	cmd.Printf("Connected %s as user %s\n", email, userID)
	return nil
}

func newDisconnectCmd() *cobra.Command {
	var (
		dataDir string
		purge   bool
	)

	cmd := &cobra.Command{
		Use:   "disconnect <email>",
		Short: "Remove a connected Google account",
		Long: `Remove the stored token for an account and drop it from its user's
email mapping. With --purge, all of the user's records are removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

			store, err := profile.NewStore(resolveDataDir(dataDir), nil)
			if err != nil {
				return err
			}
			resolver := identity.NewResolver(store, nil)

			if err := google.RemoveToken(email); err != nil {
				return err
			}

			userID, err := resolver.Resolve(email)
			if err != nil {
				if errors.Is(err, identity.ErrIdentityNotFound) {
					cmd.Printf("Removed token for %s (no user owned it)\n", email)
					return nil
				}
				return err
			}

			if purge {
				if err := store.Disconnect(userID); err != nil {
					return err
				}
				cmd.Printf("Disconnected %s and removed all records for user %s\n", email, userID)
				return nil
			}

			if err := store.RemoveEmail(userID, email); err != nil {
				return err
			}
			cmd.Printf("Disconnected %s from user %s\n", email, userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for user profile records. Can also use AVERY_DATA_DIR env var. Default: ~/.avery")
	cmd.Flags().BoolVar(&purge, "purge", false, "Also remove the user's profile, email mapping and calendar selection")

	return cmd
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
