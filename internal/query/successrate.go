// File: internal/query/successrate.go
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

// successRateColumns is the number of cells a dashboard data row carries.
const successRateColumns = 11

// QuerySuccessRate reads the receipt success rate for a PID off the SLS
// dashboard. The dashboard lives in an iframe served from a different
// origin, so the query attaches to that frame before filtering.
func QuerySuccessRate(ctx context.Context, log *zap.Logger, page browser.Page, pid, timeRange string, perCandidate time.Duration) (*schemas.SuccessRateReport, error) {
	if strings.TrimSpace(pid) == "" {
		return nil, config.NewMissingError(config.MissingSetting{
			Name:    "pid",
			Sources: []string{"--pid flag", "query.pid config"},
		})
	}

	log = log.Named("success_rate").With(zap.String("pid", pid), zap.String("time_range", timeRange))
	log.Info("Starting success-rate query")

	if err := page.Navigate(ctx, SuccessRateQueryURL); err != nil {
		return nil, fmt.Errorf("failed to open success-rate page: %w", err)
	}
	// The dashboard menu entry may already be active; a failed click is
	// logged and ignored.
	if err := page.Click(ctx, selDashboardMenu); err != nil {
		log.Debug("Dashboard menu item not clickable", zap.Error(err))
	}

	frameCtx, cancelFrame := context.WithTimeout(ctx, 30*time.Second)
	frame, err := page.Frame(frameCtx, frameURLSubstring1, frameURLSubstring2)
	cancelFrame()
	if err != nil {
		return nil, fmt.Errorf("dashboard frame did not load: %w", err)
	}
	defer func() { _ = frame.Close(ctx) }()

	if err := frame.WaitVisible(ctx, selRatePIDInput, perCandidate); err != nil {
		return nil, fmt.Errorf("PID filter not found in dashboard: %w", err)
	}
	// The trailing newline commits the filter the way pressing Enter would.
	if err := frame.Fill(ctx, selRatePIDInput, pid+"\n"); err != nil {
		return nil, fmt.Errorf("failed to fill PID filter: %w", err)
	}

	selectTimeRange(ctx, log, frame, timeRange)

	var harvested []fallback.TableRow
	result, err := fallback.Resolve(ctx, log, frame, perCandidate,
		fallback.TableStrategy{
			RowSelector:  selRateTableRow,
			CellSelector: selRateTableCell,
			ValueColumn:  7,
			TimeColumn:   -1,
			Parse:        fallback.Percentage,
			Label:        "dashboard table",
			RowFilter:    dataRowOnly,
			OnRows:       func(rows []fallback.TableRow) { harvested = rows },
		},
		fallback.FirstMatchStrategy{
			Selector: selRateValueSpan,
			Parse:    plainNumber,
			Label:    "split-container span",
		},
	)
	if err != nil {
		return nil, err
	}

	report := &schemas.SuccessRateReport{
		PID:         pid,
		TimeRange:   timeRange,
		SuccessRate: result.Value,
	}
	for _, row := range harvested {
		report.Rows = append(report.Rows, rowFromCells(row.Cells))
	}
	// Prefer the row that actually carries the queried PID; the dashboard
	// sometimes lists related accounts first.
	for _, row := range report.Rows {
		if row.PID == pid {
			report.SuccessRate = strings.TrimSuffix(row.ReceiptSuccessRate, "%")
			break
		}
	}

	log.Info("Success-rate query complete",
		zap.String("success_rate", report.SuccessRate),
		zap.Int("rows", len(report.Rows)),
	)
	return report, nil
}

// selectTimeRange opens the time picker and clicks the wanted range. The
// dashboard defaults are acceptable, so every step is best-effort.
func selectTimeRange(ctx context.Context, log *zap.Logger, frame browser.Page, timeRange string) {
	if timeRange == "" {
		return
	}
	if err := frame.Click(ctx, selRateTimePicker); err != nil {
		log.Debug("Time picker not found, keeping dashboard default", zap.Error(err))
		return
	}
	option := fmt.Sprintf(rateTimeOptionXPath, timeRange)
	if err := frame.Click(ctx, option); err != nil {
		log.Debug("Time range option not found", zap.String("time_range", timeRange), zap.Error(err))
	}
}

// dataRowOnly rejects header rows and rows too short to be data.
func dataRowOnly(cells []string) bool {
	if len(cells) < successRateColumns {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(cells[0]))
	second := strings.ToLower(strings.TrimSpace(cells[1]))
	return first != "pid" && first != "客户pid" && second != "signname"
}

// plainNumber accepts strictly numeric text like "98.5".
func plainNumber(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	dots := 0
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return "", false
			}
		default:
			return "", false
		}
	}
	return trimmed, true
}

func rowFromCells(cells []string) schemas.SuccessRateRow {
	get := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	return schemas.SuccessRateRow{
		PID:                 get(0),
		SignName:            get(1),
		SmsType:             get(2),
		SubmitCount:         get(3),
		ReceiptCount:        get(4),
		ReceiptSuccessCount: get(5),
		ReceiptRate:         strings.TrimSuffix(get(6), "%"),
		ReceiptSuccessRate:  strings.TrimSuffix(get(7), "%"),
		ReceiptRate10s:      strings.TrimSuffix(get(8), "%"),
		ReceiptRate30s:      strings.TrimSuffix(get(9), "%"),
		ReceiptRate60s:      strings.TrimSuffix(get(10), "%"),
	}
}
