// File: cmd/successrate.go
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/internal/history"
	"github.com/xkilldash9x/consolepilot/internal/query"
)

// newSuccessRateCmd creates the `success-rate` command: read the receipt
// success rate for a PID off the SLS dashboard.
func newSuccessRateCmd() *cobra.Command {
	var (
		username string
		password string
	)

	successRateCmd := &cobra.Command{
		Use:   "success-rate",
		Short: "Reads the receipt success rate for a PID from the dashboard",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("query.pid", cmd.Flags().Lookup("pid")); err != nil {
				return err
			}
			return viper.BindPFlag("query.time_range", cmd.Flags().Lookup("time-range"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg.Portal.Username = username
			cfg.Portal.Password = password
			cfg.Query.PID = viper.GetString("query.pid")
			cfg.Query.TimeRange = viper.GetString("query.time_range")

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

			report, err := query.QuerySuccessRate(ctx, rt.log, page, cfg.Query.PID, cfg.Query.TimeRange, cfg.Browser.SelectorTimeout)
			if err != nil {
				rt.record(ctx, history.Entry{
					Kind:   history.KindSuccessRate,
					PID:    cfg.Query.PID,
					Status: history.StatusFailed,
					Detail: err.Error(),
				})
				cmd.PrintErrln(explain(err))
				return err
			}

			rt.record(ctx, history.Entry{
				Kind:   history.KindSuccessRate,
				PID:    report.PID,
				Value:  report.SuccessRate,
				Status: history.StatusOK,
			})
			rt.log.Info("Success-rate lookup finished", zap.String("success_rate", report.SuccessRate))
			return printJSON(cmd, report)
		},
	}

	successRateCmd.Flags().String("pid", "", "customer PID to query")
	successRateCmd.Flags().String("time-range", "", `dashboard time range, e.g. "当天", "本周", "30天"`)
	successRateCmd.Flags().StringVarP(&username, "username", "u", "", "SSO username (overrides the environment variable)")
	successRateCmd.Flags().StringVarP(&password, "password", "p", "", "SSO password (overrides the environment variable)")
	return successRateCmd
}

func init() {
	rootCmd.AddCommand(newSuccessRateCmd())
}
