// Package scraper drives tracked plan pages through the render capability
// and the extraction chain, producing one observation snapshot per run.
package scraper

import (
	"context"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/rentwatch-go/internal/config"
	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/extract"
	"github.com/quantmind-br/rentwatch-go/internal/utils"
)

// Scraper scrapes plans strictly one at a time over a single rendering
// session. No retries: a failed page yields a failed snapshot for this run.
type Scraper struct {
	renderer   domain.Renderer
	chain      *extract.Chain
	logger     *utils.Logger
	renderOpts domain.RenderOptions
	progress   bool
	now        func() time.Time
}

// Options contains options for creating a Scraper
type Options struct {
	Renderer     domain.Renderer
	Chain        *extract.Chain
	Logger       *utils.Logger
	RenderOpts   domain.RenderOptions
	ShowProgress bool
	Now          func() time.Time // test hook, defaults to time.Now
}

// New creates a new Scraper
func New(opts Options) *Scraper {
	chain := opts.Chain
	if chain == nil {
		chain = extract.DefaultChain(opts.Logger)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scraper{
		renderer:   opts.Renderer,
		chain:      chain,
		logger:     opts.Logger,
		renderOpts: opts.RenderOpts,
		progress:   opts.ShowProgress,
		now:        now,
	}
}

// ScrapeAll scrapes every tracked plan sequentially and assembles the run's
// observation snapshot. Per-plan failures never abort the batch.
func (s *Scraper) ScrapeAll(ctx context.Context, plans []config.Plan) *domain.ObservationSnapshot {
	var bar *progressbar.ProgressBar
	if s.progress {
		bar = progressbar.NewOptions(len(plans),
			progressbar.OptionSetDescription("Scraping"),
			progressbar.OptionShowCount(),
		)
	}

	snapshots := make([]domain.PlanSnapshot, 0, len(plans))
	for _, plan := range plans {
		snapshots = append(snapshots, s.ScrapePlan(ctx, plan))
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return domain.NewObservationSnapshot(s.now(), snapshots)
}

// ScrapePlan scrapes one tracked plan. A transport failure resolves to a
// failed snapshot; an empty extraction is a zero-unit success, surfaced at
// warn level so a silently broken selector set is visible to operators.
func (s *Scraper) ScrapePlan(ctx context.Context, plan config.Plan) domain.PlanSnapshot {
	log := s.logger.WithPlan(plan.Name)
	snapshot := domain.PlanSnapshot{
		PlanName:  plan.Name,
		URL:       plan.URL,
		ScrapedAt: s.now(),
	}

	if err := ctx.Err(); err != nil {
		snapshot.Error = err.Error()
		return snapshot
	}

	html, err := s.renderer.Render(ctx, plan.URL, s.renderOpts)
	if err != nil {
		log.Warn().Err(err).Str("url", plan.URL).Msg("Page render failed")
		snapshot.Error = domain.NewScrapeError(plan.Name, plan.URL, err).Error()
		return snapshot
	}

	page, err := extract.NewPage(plan.URL, html)
	if err != nil {
		log.Warn().Err(err).Str("url", plan.URL).Msg("Page parse failed")
		snapshot.Error = domain.NewScrapeError(plan.Name, plan.URL, err).Error()
		return snapshot
	}

	snapshot.Success = true
	snapshot.Units = s.chain.Extract(page)
	snapshot.Finalize()

	if snapshot.TotalUnits == 0 {
		log.Warn().Str("url", plan.URL).
			Msg("No strategy matched anything; zero-unit snapshot recorded")
	} else {
		log.Info().Int("units", snapshot.TotalUnits).Msg("Plan scraped")
	}
	return snapshot
}
