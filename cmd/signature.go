// File: cmd/signature.go
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/internal/history"
	"github.com/xkilldash9x/consolepilot/internal/query"
)

// newSignatureCmd creates the `signature` command: look up the sign-off
// work order for a PID + signature name pair.
func newSignatureCmd() *cobra.Command {
	var (
		username string
		password string
	)

	signatureCmd := &cobra.Command{
		Use:   "signature",
		Short: "Looks up the sign-off work order for a signature",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("query.pid", cmd.Flags().Lookup("pid")); err != nil {
				return err
			}
			return viper.BindPFlag("query.sign_name", cmd.Flags().Lookup("sign-name"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg.Portal.Username = username
			cfg.Portal.Password = password
			cfg.Query.PID = viper.GetString("query.pid")
			cfg.Query.SignName = viper.GetString("query.sign_name")

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Shutdown(ctx)

			page, _, err := rt.authenticate(ctx)
			if err != nil {
				cmd.PrintErrln(explain(err))
				return err
			}
			defer page.Close(ctx)

			report, err := query.QuerySignature(ctx, rt.log, page, cfg.Query.PID, cfg.Query.SignName, cfg.Browser.SelectorTimeout)
			if err != nil {
				rt.record(ctx, history.Entry{
					Kind:   history.KindSignature,
					PID:    cfg.Query.PID,
					Status: history.StatusFailed,
					Detail: err.Error(),
				})
				cmd.PrintErrln(explain(err))
				return err
			}

			rt.record(ctx, history.Entry{
				Kind:   history.KindSignature,
				PID:    report.PID,
				Value:  report.WorkOrderID,
				Status: history.StatusOK,
			})
			rt.log.Info("Signature lookup finished", zap.String("work_order_id", report.WorkOrderID))
			return printJSON(cmd, report)
		},
	}

	signatureCmd.Flags().String("pid", "", "customer PID to query")
	signatureCmd.Flags().String("sign-name", "", "signature name to match exactly")
	signatureCmd.Flags().StringVarP(&username, "username", "u", "", "SSO username (overrides the environment variable)")
	signatureCmd.Flags().StringVarP(&password, "password", "p", "", "SSO password (overrides the environment variable)")
	return signatureCmd
}

func init() {
	rootCmd.AddCommand(newSignatureCmd())
}
