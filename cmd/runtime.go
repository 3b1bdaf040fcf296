// File: cmd/runtime.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/internal/browser"
	"github.com/xkilldash9x/consolepilot/internal/config"
	"github.com/xkilldash9x/consolepilot/internal/fallback"
	"github.com/xkilldash9x/consolepilot/internal/history"
	"github.com/xkilldash9x/consolepilot/internal/login"
	"github.com/xkilldash9x/consolepilot/internal/observability"
	"github.com/xkilldash9x/consolepilot/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// runtime bundles the components a query command needs: the browser, the
// session store, the login orchestrator, and the optional history log.
type runtime struct {
	cfg          *config.Config
	log          *zap.Logger
	manager      *browser.Manager
	store        *session.Store
	history      *history.Store
	orchestrator *login.Orchestrator
}

// newRuntime launches the browser and wires the components. Callers must
// call Shutdown when done.
func newRuntime(ctx context.Context) (*runtime, error) {
	log := observability.GetLogger()

	manager, err := browser.NewManager(ctx, log, cfg.Browser)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(afero.NewOsFs(), cfg.Session.Path, log)

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(ctx, cfg.History.Path, log)
		if err != nil {
			// History is best-effort; a broken log must not block queries.
			log.Warn("Query history unavailable", zap.Error(err))
			hist = nil
		}
	}

	return &runtime{
		cfg:          cfg,
		log:          log,
		manager:      manager,
		store:        store,
		history:      hist,
		orchestrator: login.NewOrchestrator(manager, store, cfg.Portal, cfg.Session, log),
	}, nil
}

// Shutdown releases the browser and the history log.
func (r *runtime) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_ = r.manager.Shutdown(shutdownCtx)
	if r.history != nil {
		_ = r.history.Close()
	}
}

// authenticate runs the login flow and returns the authenticated page.
func (r *runtime) authenticate(ctx context.Context) (browser.Page, *login.Result, error) {
	result, err := r.orchestrator.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, result, err
	}
	if result.State != login.StateAuthenticated {
		return nil, result, fmt.Errorf("authentication failed (%s): %w", result.State, result.Cause)
	}
	return result.Page, result, nil
}

// record appends a history entry when the log is enabled.
func (r *runtime) record(ctx context.Context, entry history.Entry) {
	if r.history == nil {
		return
	}
	if err := r.history.Record(ctx, entry); err != nil {
		r.log.Warn("Failed to record history entry", zap.Error(err))
	}
}

// printJSON writes a result object to the command's stdout.
func printJSON(cmd *cobra.Command, out interface{}) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// explain maps a query failure to the operator action that fixes it.
func explain(err error) string {
	var missing *config.MissingError
	switch {
	case errors.As(err, &missing):
		return "Missing configuration. Provide the named flags or environment variables and retry."
	case errors.Is(err, fallback.ErrNotFound):
		return "The console page layout may have changed. Verify the query filters, or update the selectors if the console was redeployed."
	case errors.Is(err, context.DeadlineExceeded):
		return "The console did not respond in time. Check connectivity to the internal network and retry."
	default:
		return "The query did not complete. Re-run with logger.level=debug for details."
	}
}
