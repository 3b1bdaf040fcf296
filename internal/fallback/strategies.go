// File: internal/fallback/strategies.go
package fallback

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ParseFunc validates and normalizes a raw extracted string. The boolean
// reports whether the input yielded an acceptable value; false fails the
// candidate and the resolver moves on.
type ParseFunc func(raw string) (string, bool)

// WaitVisibleStrategy waits for a single selector to become visible and
// extracts its text.
type WaitVisibleStrategy struct {
	Selector string
	Parse    ParseFunc
	Label    string
}

func (s WaitVisibleStrategy) Name() string { return s.Label }

func (s WaitVisibleStrategy) Extract(ctx context.Context, page Page) (string, error) {
	// The attempt context already carries the per-candidate deadline, so the
	// inner wait just inherits it.
	if err := page.WaitVisible(ctx, s.Selector, 0); err != nil {
		return "", fmt.Errorf("wait %q: %w", s.Selector, err)
	}
	raw, err := page.Text(ctx, s.Selector)
	if err != nil {
		return "", fmt.Errorf("text %q: %w", s.Selector, err)
	}
	value, ok := s.Parse(raw)
	if !ok {
		return "", fmt.Errorf("selector %q matched but %q did not parse", s.Selector, raw)
	}
	return value, nil
}

// FirstMatchStrategy queries every node matching the selector and returns
// the first one whose text parses. It does not wait; the caller is expected
// to have settled the page first.
type FirstMatchStrategy struct {
	Selector string
	Parse    ParseFunc
	Label    string
}

func (s FirstMatchStrategy) Name() string { return s.Label }

func (s FirstMatchStrategy) Extract(ctx context.Context, page Page) (string, error) {
	texts, err := page.TextAll(ctx, s.Selector)
	if err != nil {
		return "", fmt.Errorf("query %q: %w", s.Selector, err)
	}
	for _, raw := range texts {
		if value, ok := s.Parse(raw); ok {
			return value, nil
		}
	}
	return "", fmt.Errorf("selector %q: %d nodes, none parsed", s.Selector, len(texts))
}

// TableRow is one parsed result-table row as seen by TableStrategy.
type TableRow struct {
	// Value is the parsed value column.
	Value string
	// ModifiedAt is the parsed time column. Zero when the cell was absent or
	// unparsable; such rows still participate but sort earliest.
	ModifiedAt time.Time
	// Index is the row's original document-order position.
	Index int
	// Cells holds the raw cell texts.
	Cells []string
}

// TableStrategy extracts from a result table. Every row whose value column
// parses is kept; when several qualify the one with the latest time column
// wins, with document order breaking exact ties. Rows with an unparsable
// time cell are never dropped, they just lose every comparison.
type TableStrategy struct {
	RowSelector  string
	CellSelector string
	ValueColumn  int
	TimeColumn   int
	Parse        ParseFunc
	ParseTime    func(string) time.Time
	Label        string
	// RowFilter, when set, drops rows it rejects before the value column is
	// parsed. Used to match on a secondary column or skip header rows.
	RowFilter func(cells []string) bool
	// OnRows, when set, receives every qualifying row before selection so
	// callers can report candidates alongside the chosen value.
	OnRows func(rows []TableRow)
}

func (s TableStrategy) Name() string { return s.Label }

func (s TableStrategy) Extract(ctx context.Context, page Page) (string, error) {
	if err := page.WaitVisible(ctx, s.RowSelector, 0); err != nil {
		return "", fmt.Errorf("wait rows %q: %w", s.RowSelector, err)
	}
	raw, err := page.Rows(ctx, s.RowSelector, s.CellSelector)
	if err != nil {
		return "", fmt.Errorf("rows %q: %w", s.RowSelector, err)
	}

	parseTime := s.ParseTime
	if parseTime == nil {
		parseTime = ParseConsoleTime
	}

	var rows []TableRow
	for i, cells := range raw {
		if s.ValueColumn >= len(cells) {
			continue
		}
		if s.RowFilter != nil && !s.RowFilter(cells) {
			continue
		}
		value, ok := s.Parse(cells[s.ValueColumn])
		if !ok {
			continue
		}
		row := TableRow{Value: value, Index: i, Cells: cells}
		if s.TimeColumn >= 0 && s.TimeColumn < len(cells) {
			row.ModifiedAt = parseTime(cells[s.TimeColumn])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("table %q: %d rows, none qualified", s.RowSelector, len(raw))
	}
	if s.OnRows != nil {
		s.OnRows(rows)
	}

	// Stable sort keeps document order for equal timestamps, so the winner
	// of a tie is the row the console rendered first.
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].ModifiedAt.After(rows[b].ModifiedAt)
	})
	return rows[0].Value, nil
}

// ProbeStrategy checks whether a selector is visible and, on success, hands
// the selector itself back. Used to discover which of several known form
// layouts the page is currently serving.
type ProbeStrategy struct {
	Selector string
	Label    string
}

func (s ProbeStrategy) Name() string { return s.Label }

func (s ProbeStrategy) Extract(ctx context.Context, page Page) (string, error) {
	if err := page.WaitVisible(ctx, s.Selector, 0); err != nil {
		return "", fmt.Errorf("probe %q: %w", s.Selector, err)
	}
	return s.Selector, nil
}
