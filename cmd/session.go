// File: cmd/session.go
package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/consolepilot/internal/observability"
	"github.com/xkilldash9x/consolepilot/internal/session"
)

// newSessionCmd creates the `session` command group for inspecting and
// clearing the saved SSO session without launching a browser.
func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspects or clears the saved SSO session",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Shows whether the saved session is still within its validity window",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.NewStore(afero.NewOsFs(), cfg.Session.Path, observability.GetLogger())

			record := store.Load()
			if record == nil {
				cmd.Println("No saved session at", store.Path())
				return nil
			}

			savedAt, ok := record.SavedTime()
			switch {
			case !ok:
				cmd.Println("Saved session has an unreadable timestamp; it will be treated as expired.")
			case session.IsValid(record, cfg.Session.MaxAge()):
				cmd.Printf("Session is valid (saved %s, %d cookies, expires after %s).\n",
					savedAt.Format("2006-01-02 15:04:05 MST"),
					len(record.StorageState.Cookies),
					cfg.Session.MaxAge(),
				)
			default:
				cmd.Printf("Session has expired (saved %s, window %s). Run `consolepilot login` to refresh it.\n",
					savedAt.Format("2006-01-02 15:04:05 MST"),
					cfg.Session.MaxAge(),
				)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Deletes the saved session so the next run logs in from scratch",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.NewStore(afero.NewOsFs(), cfg.Session.Path, observability.GetLogger())
			if store.Delete() {
				cmd.Println("Saved session cleared.")
			} else {
				cmd.Println("Could not clear the saved session; check permissions on", store.Path())
			}
			return nil
		},
	}

	sessionCmd.AddCommand(statusCmd, clearCmd)
	return sessionCmd
}

func init() {
	rootCmd.AddCommand(newSessionCmd())
}
