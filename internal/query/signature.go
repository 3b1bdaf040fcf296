// File: internal/query/signature.go

// Package query drives the internal consoles' lookup pages. Each query
// operates on an already authenticated page and relies on the fallback
// resolver because the consoles' markup drifts between deploys.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/api/schemas"
	"github.com/xkilldash9x/consolepilot/internal/browser"
	"github.com/xkilldash9x/consolepilot/internal/config"
	"github.com/xkilldash9x/consolepilot/internal/fallback"
)

// QuerySignature looks up the sign-off work order for a PID + signature
// name pair. When the console shows several matching orders the most
// recently modified one wins.
func QuerySignature(ctx context.Context, log *zap.Logger, page browser.Page, pid, signName string, perCandidate time.Duration) (*schemas.SignatureReport, error) {
	var missing []config.MissingSetting
	if strings.TrimSpace(pid) == "" {
		missing = append(missing, config.MissingSetting{
			Name:    "pid",
			Sources: []string{"--pid flag", "query.pid config"},
		})
	}
	if strings.TrimSpace(signName) == "" {
		missing = append(missing, config.MissingSetting{
			Name:    "sign name",
			Sources: []string{"--sign-name flag", "query.sign_name config"},
		})
	}
	if len(missing) > 0 {
		return nil, config.NewMissingError(missing...)
	}

	log = log.Named("signature").With(zap.String("pid", pid), zap.String("sign_name", signName))
	log.Info("Starting signature query")

	if err := page.Navigate(ctx, SignQueryURL); err != nil {
		return nil, fmt.Errorf("failed to open signature query page: %w", err)
	}
	if err := page.Fill(ctx, selPartnerID, pid); err != nil {
		return nil, fmt.Errorf("failed to fill PID: %w", err)
	}
	if err := page.Fill(ctx, selSignName, signName); err != nil {
		return nil, fmt.Errorf("failed to fill signature name: %w", err)
	}
	// Some console variants trigger the search on input, others need the
	// button. A missing button is not an error.
	if err := page.Click(ctx, selQueryButton); err != nil {
		log.Debug("No query button found, assuming auto-search", zap.Error(err))
	}

	var harvested []fallback.TableRow
	result, err := fallback.Resolve(ctx, log, page, perCandidate,
		fallback.TableStrategy{
			RowSelector:  selSignTableRow,
			CellSelector: selSignTableCell,
			ValueColumn:  0,
			TimeColumn:   2,
			Parse:        fallback.DigitRun,
			Label:        "result table",
			RowFilter:    signNameMatches(signName),
			OnRows:       func(rows []fallback.TableRow) { harvested = rows },
		},
		fallback.WaitVisibleStrategy{
			Selector: selWorkOrderPrimary,
			Parse:    fallback.DigitRun,
			Label:    "primary cell",
		},
		fallback.FirstMatchStrategy{
			Selector: selSignTableCell,
			Parse:    fallback.DigitRun,
			Label:    "any table cell",
		},
	)
	if err != nil {
		return nil, err
	}

	report := &schemas.SignatureReport{
		PID:         pid,
		SignName:    signName,
		WorkOrderID: result.Value,
	}
	for _, row := range harvested {
		order := schemas.WorkOrder{ID: row.Value, RowIndex: row.Index}
		if len(row.Cells) > 2 {
			order.ModifiedAt = row.Cells[2]
		}
		report.Orders = append(report.Orders, order)
	}

	log.Info("Signature query complete",
		zap.String("work_order_id", report.WorkOrderID),
		zap.String("strategy", result.Strategy),
		zap.Int("candidates", len(report.Orders)),
	)
	return report, nil
}

// signNameMatches keeps only rows whose name column equals the wanted
// signature exactly. The cell text may carry a trailing copy-icon label, so
// a prefix match on the trimmed text is also accepted.
func signNameMatches(signName string) func(cells []string) bool {
	return func(cells []string) bool {
		if len(cells) < 2 {
			return false
		}
		cell := strings.TrimSpace(cells[1])
		return cell == signName || strings.HasPrefix(cell, signName)
	}
}
