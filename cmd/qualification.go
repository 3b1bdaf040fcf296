// File: cmd/qualification.go
package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/internal/history"
	"github.com/xkilldash9x/consolepilot/internal/query"
)

// newQualificationCmd creates the `qualification` command: cross-reference
// a work order's qualification ID against the PID's SMS qualification
// orders.
func newQualificationCmd() *cobra.Command {
	var (
		username string
		password string
		orderID  string
	)

	qualificationCmd := &cobra.Command{
		Use:   "qualification",
		Short: "Finds the SMS qualification order matching a work order's qualification ID",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlag("query.pid", cmd.Flags().Lookup("pid"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg.Portal.Username = username
			cfg.Portal.Password = password
			cfg.Query.PID = viper.GetString("query.pid")

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

			report, err := query.QueryQualification(ctx, rt.log, page, orderID, cfg.Query.PID, cfg.Browser.SelectorTimeout)
			if err != nil {
				rt.record(ctx, history.Entry{
					Kind:   history.KindQualification,
					PID:    cfg.Query.PID,
					Status: history.StatusFailed,
					Detail: err.Error(),
				})
				if errors.Is(err, query.ErrNoMatch) && report != nil {
					// The reference ID is still worth showing.
					_ = printJSON(cmd, report)
				}
				cmd.PrintErrln(explain(err))
				return err
			}

			rt.record(ctx, history.Entry{
				Kind:   history.KindQualification,
				PID:    cfg.Query.PID,
				Value:  report.WorkOrderID,
				Status: history.StatusOK,
			})
			rt.log.Info("Qualification lookup finished", zap.String("work_order_id", report.WorkOrderID))
			return printJSON(cmd, report)
		},
	}

	qualificationCmd.Flags().StringVar(&orderID, "order", "", "reference work-order ID to cross-reference")
	qualificationCmd.Flags().String("pid", "", "customer PID whose SMS qualification orders are searched")
	qualificationCmd.Flags().StringVarP(&username, "username", "u", "", "SSO username (overrides the environment variable)")
	qualificationCmd.Flags().StringVarP(&password, "password", "p", "", "SSO password (overrides the environment variable)")
	return qualificationCmd
}

func init() {
	rootCmd.AddCommand(newQualificationCmd())
}
