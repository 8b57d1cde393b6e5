package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobradar/internal/scraper"
)

type fakeResolver struct {
	sources []string
}

func (f *fakeResolver) SourcesFor(ctx context.Context, locationText string) []string {
	return f.sources
}

// fakeScraper returns canned postings, a canned error, or panics outright.
type fakeScraper struct {
	name     string
	postings []scraper.RawPosting
	err      error
	panics   bool
	closed   atomic.Bool
}

func (f *fakeScraper) Name() string { return f.name }
func (f *fakeScraper) Close()       { f.closed.Store(true) }

func (f *fakeScraper) Scrape(ctx context.Context, query string, opts scraper.SearchOptions) scraper.ScrapeResult {
	if f.panics {
		panic("selector vanished")
	}
	if f.err != nil {
		return scraper.ScrapeResult{Source: f.name, Err: f.err}
	}
	return scraper.ScrapeResult{
		Success:      true,
		Source:       f.name,
		Postings:     f.postings,
		ItemsScraped: len(f.postings),
	}
}

func factoryFor(adapters map[string]*fakeScraper) Factory {
	return func(name string) (scraper.Scraper, bool) {
		a, ok := adapters[name]
		if !ok {
			return nil, false
		}
		return a, true
	}
}

func posting(title, company, source string) scraper.RawPosting {
	return scraper.RawPosting{Title: title, Company: company, Location: "Toronto", Source: source}
}

func TestSearchJobs_AggregatesAcrossSources(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"indeed":   {name: "indeed", postings: []scraper.RawPosting{posting("Backend Engineer", "Acme", "indeed")}},
		"remoteok": {name: "remoteok", postings: []scraper.RawPosting{posting("Data Scientist", "Initech", "remoteok")}},
	}
	o := New(&fakeResolver{sources: []string{"indeed", "remoteok"}}, factoryFor(adapters))

	resp, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer", Location: "Toronto"}, Options{})

	require.NoError(t, err)
	assert.Len(t, resp.Jobs, 2)
	assert.Equal(t, 2, resp.Total)
	assert.NotEmpty(t, resp.RunID)
	assert.ElementsMatch(t, []string{"indeed", "remoteok"}, resp.SourcesUsed)
}

func TestSearchJobs_OneFailingSourceDoesNotFailTheSearch(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"indeed":   {name: "indeed", postings: []scraper.RawPosting{posting("Backend Engineer", "Acme", "indeed")}},
		"linkedin": {name: "linkedin", err: errors.New("linkedin failed after 2 attempts: blocked")},
		"remoteok": {name: "remoteok", postings: []scraper.RawPosting{posting("Data Scientist", "Initech", "remoteok")}},
	}
	o := New(&fakeResolver{sources: []string{"indeed", "linkedin", "remoteok"}}, factoryFor(adapters))

	resp, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer"}, Options{})

	require.NoError(t, err)
	assert.Len(t, resp.Jobs, 2, "the healthy sources still contribute")
	assert.ElementsMatch(t, []string{"indeed", "linkedin", "remoteok"}, resp.SourcesUsed,
		"attempted sources are reported even when they fail")
}

func TestSearchJobs_PanickingAdapterIsIsolated(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"indeed":    {name: "indeed", postings: []scraper.RawPosting{posting("Backend Engineer", "Acme", "indeed")}},
		"glassdoor": {name: "glassdoor", panics: true},
	}
	o := New(&fakeResolver{sources: []string{"indeed", "glassdoor"}}, factoryFor(adapters))

	resp, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer"}, Options{})

	require.NoError(t, err)
	assert.Len(t, resp.Jobs, 1)
	assert.True(t, adapters["glassdoor"].closed.Load(), "a panicking adapter is still closed")
}

func TestSearchJobs_ExplicitSourcesBypassResolver(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"remoteok": {name: "remoteok", postings: []scraper.RawPosting{posting("Data Scientist", "Initech", "remoteok")}},
	}
	// resolver would steer elsewhere; the override must win
	o := New(&fakeResolver{sources: []string{"indeed", "linkedin"}}, factoryFor(adapters))

	resp, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "data"}, Options{
		Sources: []string{"remoteok"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"remoteok"}, resp.SourcesUsed)
}

func TestSearchJobs_UnknownSourcesSkipped(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"indeed": {name: "indeed", postings: []scraper.RawPosting{posting("Backend Engineer", "Acme", "indeed")}},
	}
	o := New(&fakeResolver{sources: []string{"indeed", "jobbank"}}, factoryFor(adapters))

	resp, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer"}, Options{})

	require.NoError(t, err)
	assert.Equal(t, []string{"indeed"}, resp.SourcesUsed)
}

func TestSearchJobs_AllSourcesUnknownIsAnError(t *testing.T) {
	o := New(&fakeResolver{sources: []string{"jobbank", "seek"}}, factoryFor(nil))

	_, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer"}, Options{})

	assert.Error(t, err)
}

func TestSearchJobs_NoSourcesResolvedIsAnError(t *testing.T) {
	o := New(&fakeResolver{}, factoryFor(nil))

	_, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer", Location: "Atlantis"}, Options{})

	assert.Error(t, err)
}

func TestSearchJobs_SequentialMode(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"indeed":   {name: "indeed", postings: []scraper.RawPosting{posting("Backend Engineer", "Acme", "indeed")}},
		"remoteok": {name: "remoteok", postings: []scraper.RawPosting{posting("Data Scientist", "Initech", "remoteok")}},
	}
	o := New(&fakeResolver{sources: []string{"indeed", "remoteok"}}, factoryFor(adapters))

	sequential := false
	resp, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer"}, Options{
		Parallel: &sequential,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Jobs, 2)
}

func TestSearchJobs_DuplicatesAcrossSourcesCollapse(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"indeed":   {name: "indeed", postings: []scraper.RawPosting{posting("Backend Engineer", "Acme", "indeed")}},
		"linkedin": {name: "linkedin", postings: []scraper.RawPosting{posting("Backend Engineer", "Acme Inc.", "linkedin")}},
	}
	o := New(&fakeResolver{sources: []string{"indeed", "linkedin"}}, factoryFor(adapters))

	resp, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer"}, Options{})

	require.NoError(t, err)
	assert.Len(t, resp.Jobs, 1)
	assert.Equal(t, 2, resp.Stats.TotalInput)
	assert.Equal(t, 1, resp.Stats.DuplicatesRemoved)
}

func TestSearchJobs_ClosesEveryAdapter(t *testing.T) {
	adapters := map[string]*fakeScraper{
		"indeed":   {name: "indeed"},
		"remoteok": {name: "remoteok"},
	}
	o := New(&fakeResolver{sources: []string{"indeed", "remoteok"}}, factoryFor(adapters))

	_, err := o.SearchJobs(context.Background(), SearchFilters{Keywords: "engineer"}, Options{})

	require.NoError(t, err)
	for name, a := range adapters {
		assert.True(t, a.closed.Load(), "adapter %q not closed", name)
	}
}
