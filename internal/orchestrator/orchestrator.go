// Fan a search out across board adapters, isolate per-source failures, and
// hand the concatenated raw postings to the deduplicator.

package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-jobradar/internal/dedup"
	"go-jobradar/internal/scraper"
)

// SearchFilters is the inbound search request from the API layer.
type SearchFilters struct {
	Keywords        string `json:"keywords"`
	Location        string `json:"location"`
	Remote          bool   `json:"remote"`
	JobType         string `json:"jobType"`
	ExperienceLevel string `json:"experienceLevel"`
}

// Options controls dispatch. The zero value means: resolve sources from the
// location, run in parallel, default per-source limit.
type Options struct {
	Sources             []string `json:"sources,omitempty"`
	Parallel            *bool    `json:"parallel,omitempty"`
	MaxResultsPerSource int      `json:"maxResultsPerSource,omitempty"`
}

// SearchResponse is the aggregate outcome of one search across all boards.
type SearchResponse struct {
	RunID            string                `json:"runId"`
	Jobs             []dedup.NormalizedJob `json:"jobs"`
	Total            int                   `json:"total"`
	Stats            dedup.Stats           `json:"stats"`
	SourcesUsed      []string              `json:"sourcesUsed"`
	ScrapeDurationMs int64                 `json:"scrapeDurationMs"`
}

// SourceResolver maps a free-text location to source ids.
type SourceResolver interface {
	SourcesFor(ctx context.Context, locationText string) []string
}

// Factory builds a fresh adapter for a source id. Fresh per search so each
// scrape owns its rate limiter and browser exclusively.
type Factory func(name string) (scraper.Scraper, bool)

type Orchestrator struct {
	resolver SourceResolver
	factory  Factory
	dedup    *dedup.Deduplicator
}

func New(resolver SourceResolver, factory Factory) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		factory:  factory,
		dedup:    dedup.New(),
	}
}

// SearchJobs resolves the source set, dispatches the adapters and dedups the
// combined postings. Partial failures never fail the search — a source that
// exhausted its retries simply contributes zero postings. The only error
// path is failing to resolve any source at all before dispatch.
func (o *Orchestrator) SearchJobs(ctx context.Context, filters SearchFilters, opts Options) (*SearchResponse, error) {
	start := time.Now()

	sourceIDs := opts.Sources
	if len(sourceIDs) == 0 {
		sourceIDs = o.resolver.SourcesFor(ctx, filters.Location)
	}
	if len(sourceIDs) == 0 {
		return nil, fmt.Errorf("no sources resolved for location %q", filters.Location)
	}

	searchOpts := scraper.SearchOptions{
		Location:        filters.Location,
		Remote:          filters.Remote,
		JobType:         filters.JobType,
		ExperienceLevel: filters.ExperienceLevel,
		Limit:           opts.MaxResultsPerSource,
	}

	var adapters []scraper.Scraper
	var attempted []string
	for _, id := range sourceIDs {
		adapter, ok := o.factory(id)
		if !ok {
			log.Printf("⚠️ No adapter registered for source %q — skipping", id)
			continue
		}
		adapters = append(adapters, adapter)
		attempted = append(attempted, adapter.Name())
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("none of the resolved sources %v have a registered adapter", sourceIDs)
	}

	parallel := true
	if opts.Parallel != nil {
		parallel = *opts.Parallel
	}

	var results []scraper.ScrapeResult
	if parallel {
		log.Printf("🚀 Dispatching %d sources in parallel: %v", len(adapters), attempted)
		resultCh := make(chan scraper.ScrapeResult, len(adapters))
		var wg sync.WaitGroup
		for _, adapter := range adapters {
			wg.Add(1)
			go func(a scraper.Scraper) {
				defer wg.Done()
				resultCh <- o.runOne(ctx, a, filters.Keywords, searchOpts)
			}(adapter)
		}
		wg.Wait()
		close(resultCh)
		for r := range resultCh {
			results = append(results, r)
		}
	} else {
		log.Printf("🚀 Dispatching %d sources sequentially: %v", len(adapters), attempted)
		for _, adapter := range adapters {
			results = append(results, o.runOne(ctx, adapter, filters.Keywords, searchOpts))
		}
	}

	var raw []scraper.RawPosting
	for _, r := range results {
		if !r.Success {
			log.Printf("❌ [%s] Scrape failed after %v: %v", r.Source, r.Duration.Round(time.Millisecond), r.Err)
			continue
		}
		raw = append(raw, r.Postings...)
	}

	jobs, stats := o.dedup.Deduplicate(raw)

	return &SearchResponse{
		RunID:            uuid.NewString(),
		Jobs:             jobs,
		Total:            len(jobs),
		Stats:            stats,
		SourcesUsed:      attempted,
		ScrapeDurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// runOne drives a single adapter, converting panics into failed results so
// one misbehaving board can never take down its siblings, and always closes
// the adapter's browser.
func (o *Orchestrator) runOne(ctx context.Context, adapter scraper.Scraper, query string, opts scraper.SearchOptions) (result scraper.ScrapeResult) {
	defer adapter.Close()
	defer func() {
		if r := recover(); r != nil {
			result = scraper.ScrapeResult{
				Source: adapter.Name(),
				Err:    fmt.Errorf("adapter panicked: %v", r),
			}
		}
	}()

	return adapter.Scrape(ctx, query, opts)
}
