// Package app coordinates one full observation run: scrape every tracked
// plan, reconcile against the last recorded snapshot, surface the report,
// and append the new snapshot to history.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/quantmind-br/rentwatch-go/internal/config"
	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/reconcile"
	"github.com/quantmind-br/rentwatch-go/internal/report"
	"github.com/quantmind-br/rentwatch-go/internal/scraper"
	"github.com/quantmind-br/rentwatch-go/internal/utils"
)

// Orchestrator runs the scrape-reconcile-report-persist pipeline.
type Orchestrator struct {
	config *config.Config
	deps   *Dependencies
	logger *utils.Logger
	out    io.Writer
	now    func() time.Time
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config *config.Config
	Deps   *Dependencies // optional, built from config when nil
	Logger *utils.Logger
	Out    io.Writer        // console report destination, defaults to stdout
	Now    func() time.Time // test hook, defaults to time.Now
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:  opts.Config.Logging.Level,
			Format: opts.Config.Logging.Format,
		})
	}

	deps := opts.Deps
	if deps == nil {
		var err error
		deps, err = NewDependencies(opts.Config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create dependencies: %w", err)
		}
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		config: opts.Config,
		deps:   deps,
		logger: logger,
		out:    out,
		now:    now,
	}, nil
}

// Run executes one observation run. Notification failures are logged and
// swallowed; persistence failures are fatal and reported to the caller.
func (o *Orchestrator) Run(ctx context.Context) (*domain.ReportSnapshot, error) {
	startTime := o.now()

	plans, err := config.LoadPlans(o.config.PlansFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	o.logger.Info().
		Int("plans", len(plans)).
		Str("history_backend", o.config.History.Backend).
		Msg("Starting observation run")

	previous, err := o.deps.Store.GetLast(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last snapshot: %w", err)
	}
	if previous == nil {
		o.logger.Info().Msg("No history yet; every unit will be reported as new")
	}

	s := scraper.New(scraper.Options{
		Renderer: o.deps.Renderer,
		Logger:   o.logger,
		RenderOpts: domain.RenderOptions{
			Timeout:    o.config.Rendering.Timeout,
			WaitFor:    o.config.Rendering.WaitFor,
			WaitStable: o.config.Rendering.WaitStable,
		},
		ShowProgress: o.out == os.Stdout,
		Now:          o.now,
	})
	current := s.ScrapeAll(ctx, plans)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := reconcile.Reconcile(current, previous)
	fmt.Fprint(o.out, report.ConsoleSummary(rep))

	o.notify(ctx, rep)

	// Persist last: the appended snapshot must reflect this run even when
	// delivery failed. A persistence failure is the only fatal outcome.
	if err := o.deps.Store.Append(ctx, current); err != nil {
		return rep, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	o.logger.Info().
		Dur("duration", o.now().Sub(startTime)).
		Int("changes", rep.Summary.Total()-rep.Summary.Unchanged).
		Msg("Observation run completed")

	return rep, nil
}

// notify delivers the report when warranted. Never fatal.
func (o *Orchestrator) notify(ctx context.Context, rep *domain.ReportSnapshot) {
	if o.deps.Notifier == nil {
		return
	}
	if !reconcile.HasUpdates(rep) && !o.config.Notify.AlwaysNotify {
		o.logger.Debug().Msg("No updates; skipping notification")
		return
	}

	if err := o.deps.Notifier.Notify(ctx, reconcile.Subject(rep), rep); err != nil {
		o.logger.Warn().Err(err).Msg("Notification failed; continuing to persist")
	}
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.deps != nil {
		return o.deps.Close()
	}
	return nil
}
