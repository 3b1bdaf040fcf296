// File: internal/query/qualification.go
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/api/schemas"
	"github.com/xkilldash9x/consolepilot/internal/browser"
	"github.com/xkilldash9x/consolepilot/internal/config"
	"github.com/xkilldash9x/consolepilot/internal/fallback"
)

// ErrNoMatch reports that every SMS qualification order under the PID was
// checked and none shares the reference order's qualification ID.
var ErrNoMatch = errors.New("query: no work order with a matching qualification ID")

// maxQualificationPages bounds the pagination walk so a console glitch
// cannot loop forever.
const maxQualificationPages = 20

// QueryQualification cross-references a work order against the
// qualification console:
//
//  1. Open the reference order's detail page and read its qualification ID.
//  2. List every SMS qualification order under the PID, across pages.
//  3. Open each candidate and compare its qualification group ID against
//     the reference ID; the first match wins.
func QueryQualification(ctx context.Context, log *zap.Logger, page browser.Page, workOrderID, pid string, perCandidate time.Duration) (*schemas.QualificationReport, error) {
	var missing []config.MissingSetting
	if strings.TrimSpace(workOrderID) == "" {
		missing = append(missing, config.MissingSetting{
			Name:    "work order id",
			Sources: []string{"--order flag"},
		})
	}
	if strings.TrimSpace(pid) == "" {
		missing = append(missing, config.MissingSetting{
			Name:    "pid",
			Sources: []string{"--pid flag", "query.pid config"},
		})
	}
	if len(missing) > 0 {
		return nil, config.NewMissingError(missing...)
	}

	log = log.Named("qualification").With(zap.String("work_order_id", workOrderID), zap.String("pid", pid))
	log.Info("Starting qualification cross-reference")

	qualificationID, err := readQualificationID(ctx, log, page, workOrderID, perCandidate)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference qualification ID: %w", err)
	}
	log.Info("Reference qualification ID resolved", zap.String("qualification_id", qualificationID))

	candidates, err := collectSMSOrders(ctx, log, page, pid, perCandidate)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &schemas.QualificationReport{QualificationID: qualificationID},
			fmt.Errorf("no SMS qualification orders found for PID %s: %w", pid, ErrNoMatch)
	}
	log.Info("Candidate orders collected", zap.Int("count", len(candidates)))

	for i, candidate := range candidates {
		log.Debug("Checking candidate order",
			zap.String("candidate", candidate),
			zap.Int("position", i+1),
			zap.Int("total", len(candidates)),
		)
		groupID, err := readGroupID(ctx, log, page, pid, candidate, perCandidate)
		if err != nil {
			log.Warn("Could not read candidate's group ID", zap.String("candidate", candidate), zap.Error(err))
			continue
		}
		if groupID == qualificationID {
			log.Info("Qualification IDs match", zap.String("work_order_id", candidate))
			return &schemas.QualificationReport{
				WorkOrderID:     candidate,
				QualificationID: qualificationID,
				GroupID:         groupID,
			}, nil
		}
	}

	return &schemas.QualificationReport{QualificationID: qualificationID},
		fmt.Errorf("checked %d orders: %w", len(candidates), ErrNoMatch)
}

// readQualificationID opens the reference order's detail page and extracts
// its qualification ID.
func readQualificationID(ctx context.Context, log *zap.Logger, page browser.Page, workOrderID string, perCandidate time.Duration) (string, error) {
	if err := page.Navigate(ctx, QualificationQueryURL); err != nil {
		return "", err
	}
	if err := page.Fill(ctx, selOrderIDInput, workOrderID); err != nil {
		return "", fmt.Errorf("failed to fill order ID: %w", err)
	}
	if err := page.Click(ctx, selQualQueryButton); err != nil {
		return "", fmt.Errorf("failed to click query button: %w", err)
	}
	if err := page.Click(ctx, fmt.Sprintf(orderLinkXPath, workOrderID)); err != nil {
		return "", fmt.Errorf("order %s not in results: %w", workOrderID, err)
	}

	result, err := fallback.Resolve(ctx, log, page, perCandidate,
		fallback.WaitVisibleStrategy{Selector: selQualIDPre, Parse: fallback.DigitRun, Label: "pre tag"},
		fallback.FirstMatchStrategy{Selector: selQualIDCells, Parse: fallback.DigitRun, Label: "row cells"},
	)
	if err != nil {
		return "", err
	}
	return result.Value, nil
}

// collectSMSOrders lists the PID's SMS qualification order IDs across every
// result page.
func collectSMSOrders(ctx context.Context, log *zap.Logger, page browser.Page, pid string, perCandidate time.Duration) ([]string, error) {
	if err := searchByPID(ctx, page, pid, perCandidate); err != nil {
		return nil, err
	}

	var orders []string
	seen := map[string]bool{}
	for pageNum := 1; pageNum <= maxQualificationPages; pageNum++ {
		if err := page.WaitVisible(ctx, selQualTableRow, perCandidate); err != nil {
			log.Debug("No result rows on page", zap.Int("page", pageNum), zap.Error(err))
			break
		}
		rows, err := page.Rows(ctx, selQualTableRow, selQualTableCell)
		if err != nil {
			return nil, fmt.Errorf("failed to read result rows: %w", err)
		}
		for _, cells := range rows {
			if !rowMentions(cells, smsQualificationLabel) {
				continue
			}
			if id, ok := orderIDFromRow(cells); ok && !seen[id] {
				seen[id] = true
				orders = append(orders, id)
			}
		}

		if !hasNextPage(ctx, page) {
			break
		}
		if err := page.Click(ctx, selPaginationNextBtn); err != nil {
			log.Debug("Failed to advance pagination", zap.Error(err))
			break
		}
	}
	return orders, nil
}

// readGroupID re-runs the PID search, opens one candidate order, and reads
// its qualification group ID. The detail view replaces the result list, so
// every candidate needs a fresh search.
func readGroupID(ctx context.Context, log *zap.Logger, page browser.Page, pid, candidate string, perCandidate time.Duration) (string, error) {
	if err := searchByPID(ctx, page, pid, perCandidate); err != nil {
		return "", err
	}

	link := fmt.Sprintf(orderLinkXPath, candidate)
	for pageNum := 1; pageNum <= maxQualificationPages; pageNum++ {
		if err := page.Click(ctx, link); err == nil {
			break
		}
		if !hasNextPage(ctx, page) {
			return "", fmt.Errorf("order %s not found in any result page", candidate)
		}
		if err := page.Click(ctx, selPaginationNextBtn); err != nil {
			return "", fmt.Errorf("failed to advance pagination: %w", err)
		}
	}

	result, err := fallback.Resolve(ctx, log, page, perCandidate,
		fallback.WaitVisibleStrategy{Selector: selGroupIDPre, Parse: fallback.DigitRun, Label: "pre tag"},
		fallback.FirstMatchStrategy{Selector: selGroupIDCells, Parse: fallback.DigitRun, Label: "row cells"},
	)
	if err != nil {
		return "", err
	}
	return result.Value, nil
}

func searchByPID(ctx context.Context, page browser.Page, pid string, perCandidate time.Duration) error {
	if err := page.Navigate(ctx, QualificationQueryURL); err != nil {
		return err
	}
	// The PID field's id differs between console revisions.
	if err := page.Fill(ctx, selQualPIDInput, pid); err != nil {
		if err := page.Fill(ctx, selQualPIDFallback, pid); err != nil {
			return fmt.Errorf("PID input not found: %w", err)
		}
	}
	if err := page.Click(ctx, selQualQueryButton); err != nil {
		return fmt.Errorf("failed to click query button: %w", err)
	}
	return nil
}

// hasNextPage reports whether the pagination control offers another page.
func hasNextPage(ctx context.Context, page browser.Page) bool {
	disabled, err := page.TextAll(ctx, selPaginationDisabled)
	if err != nil {
		return false
	}
	if len(disabled) > 0 {
		return false
	}
	next, err := page.TextAll(ctx, selPaginationNextBtn)
	return err == nil && len(next) > 0
}

// orderIDFromRow extracts the work-order ID from a result row: the first
// cell whose content is purely numeric, falling back to the first digit run
// anywhere in the row.
func orderIDFromRow(cells []string) (string, bool) {
	for _, cell := range cells {
		trimmed := strings.TrimSpace(cell)
		if run, ok := fallback.DigitRun(trimmed); ok && run == trimmed {
			return run, true
		}
	}
	return fallback.DigitRun(strings.Join(cells, " "))
}

func rowMentions(cells []string, label string) bool {
	for _, cell := range cells {
		if strings.Contains(cell, label) {
			return true
		}
	}
	return false
}
