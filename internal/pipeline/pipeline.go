// Package pipeline orchestrates the complete analysis run: fetch both
// feeds, normalize, score every record, roll up the executive summary and
// render reports.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shinde-pras/helix-insights-app/internal/cache"
	"github.com/shinde-pras/helix-insights-app/internal/fetch"
	"github.com/shinde-pras/helix-insights-app/internal/llm"
	"github.com/shinde-pras/helix-insights-app/internal/madison"
	"github.com/shinde-pras/helix-insights-app/internal/model"
	"github.com/shinde-pras/helix-insights-app/internal/source"
)

// Pipeline wires the sources, scorer and renderer together
type Pipeline struct {
	sources  []source.Source
	scorer   *madison.Scorer
	renderer *Renderer
	briefer  *llm.Briefer // Optional LLM briefer (nil if disabled)
	config   *model.Config
}

// NewPipeline builds a pipeline from configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	client := fetch.NewClient(cfg.HTTP, cfg.RateLimit, store)

	var briefer *llm.Briefer
	if cfg.LLM.Provider != "" {
		b, err := llm.NewBriefer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			briefer = b
		}
	}

	return &Pipeline{
		sources: []source.Source{
			source.NewFDAClient(client, cfg.Sources.FDA),
			source.NewCTGovClient(client, cfg.Sources.ClinicalTrials),
		},
		scorer:   madison.NewScorer(cfg.Scoring),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		briefer:  briefer,
		config:   cfg,
	}
}

// sourceOutcome carries one feed's fetch result back from its goroutine
type sourceOutcome struct {
	name    string
	records []model.Record
	meta    model.FetchMeta
	err     error
}

// Run executes a full analysis for the query. A single failing source
// degrades the report; the run only errors when every source fails.
func (p *Pipeline) Run(ctx context.Context, q source.Query) (*model.Report, error) {
	outcomes := p.fetchAll(ctx, q)

	var (
		records     []model.Record
		fetchMeta   = make(map[string]model.FetchMeta, len(outcomes))
		failures    int
		lastFailure error
	)

	for _, out := range outcomes {
		meta := out.meta
		if out.err != nil {
			failures++
			lastFailure = out.err
			meta.Error = out.err.Error()
		} else {
			records = append(records, out.records...)
		}
		fetchMeta[out.name] = meta
	}

	if failures == len(outcomes) {
		return nil, fmt.Errorf("all sources failed: %w", lastFailure)
	}

	scored := p.scorer.AssessAll(records)

	report := &model.Report{
		ReportID:    uuid.NewString(),
		SearchTerm:  q.Term,
		DaysBack:    q.DaysBack,
		GeneratedAt: time.Now().UTC(),
		FetchMeta:   fetchMeta,
		Records:     scored,
		Summary:     BuildSummary(scored),
	}

	// The brief runs after scoring and never feeds back into it
	if p.briefer != nil && p.briefer.IsEnabled() {
		brief, err := p.briefer.GenerateBrief(ctx, *report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: executive brief generation failed: %v\n", err)
		} else if brief != nil {
			report.Brief = brief
		}
	}

	return report, nil
}

// Analyze satisfies worker.Analyzer for watchlist batch runs, using the
// configured window and depth.
func (p *Pipeline) Analyze(ctx context.Context, term string) (*model.Report, error) {
	return p.Run(ctx, source.Query{
		Term:       term,
		DaysBack:   p.config.Sources.DaysBack,
		MaxRecords: p.config.Sources.MaxRecords,
	})
}

// fetchAll pulls every source concurrently, bounded by FetchWorkers
func (p *Pipeline) fetchAll(ctx context.Context, q source.Query) []sourceOutcome {
	workers := p.config.Concurrency.FetchWorkers
	if workers <= 0 {
		workers = len(p.sources)
	}

	outcomes := make([]sourceOutcome, len(p.sources))
	semaphore := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, src := range p.sources {
		wg.Add(1)
		go func(idx int, s source.Source) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				outcomes[idx] = sourceOutcome{name: s.Name(), err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			started := time.Now()
			records, meta, err := s.Fetch(ctx, q)
			meta.Duration = time.Since(started).Round(time.Millisecond).String()

			outcomes[idx] = sourceOutcome{name: s.Name(), records: records, meta: meta, err: err}
		}(i, src)
	}
	wg.Wait()

	return outcomes
}

// RenderReport writes the report to the requested outputs and prints the
// stdout digest.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}
