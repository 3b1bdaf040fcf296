// File: cmd/login.go
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/internal/login"
)

// newLoginCmd creates the `login` command: it establishes (or refreshes)
// the SSO session and persists it for later query runs.
func newLoginCmd() *cobra.Command {
	var (
		username string
		password string
		force    bool
	)

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Establishes an SSO session and saves it for later queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg.Portal.Username = username
			cfg.Portal.Password = password

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Shutdown(ctx)

			if force {
				// Dropping the saved record forces the full login flow.
				rt.store.Delete()
			}

			result, err := rt.orchestrator.EnsureAuthenticated(ctx)
			if err != nil {
				return err
			}
			if result.State != login.StateAuthenticated {
				rt.log.Error("Login failed", zap.Error(result.Cause))
				cmd.PrintErrln("Login failed:", result.Cause)
				cmd.PrintErrln(explain(result.Cause))
				return nil
			}
			defer result.Page.Close(ctx)

			if result.ReusedSession {
				cmd.Println("Already logged in; the saved session is still valid.")
			} else {
				cmd.Println("Login successful. Session saved to", rt.store.Path())
			}
			return nil
		},
	}

	loginCmd.Flags().StringVarP(&username, "username", "u", "", "SSO username (overrides the environment variable)")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "SSO password (overrides the environment variable)")
	loginCmd.Flags().BoolVar(&force, "force", false, "discard the saved session and log in again")
	return loginCmd
}

func init() {
	rootCmd.AddCommand(newLoginCmd())
}
