// Define the common contract for all job board scrapers
// Ensure consistency

package scraper

import (
	"context"
	"path/filepath"
	"time"
)

// RawPosting is a job posting exactly as it came off a board, before any
// normalization. Discarded once the deduplicator has produced its canonical
// form.
type RawPosting struct {
	Title         string
	Company       string
	Location      string
	Salary        string
	Description   string
	URL           string
	PostedDate    string
	JobType       string
	Tags          []string
	CompanyRating float64
	Remote        bool
	Source        string
}

// ScrapeResult is what every adapter hands back to the orchestrator,
// successful or not.
type ScrapeResult struct {
	Success      bool
	Postings     []RawPosting
	Err          error
	ItemsScraped int
	Duration     time.Duration
	Source       string
}

// SearchOptions carries the caller's search refinements into an adapter.
type SearchOptions struct {
	Location        string
	Remote          bool
	JobType         string
	ExperienceLevel string
	Limit           int
}

// Scraper defines the interface that all board scrapers must implement.
// The orchestrator never knows which concrete adapter it is driving.
type Scraper interface {
	// Scrape runs one full search against the board. It never panics; a
	// failure after the adapter's own retries comes back as a failed result.
	Scrape(ctx context.Context, query string, opts SearchOptions) ScrapeResult

	// Name is the board identifier (indeed, linkedin, ...)
	Name() string

	// Close tears down the adapter's browser. Safe to call when nothing is open.
	Close()
}

// Settings are the process-wide knobs shared by every adapter, sourced from
// the application config. Per-board policy lives in Config; these are the
// values the operator tunes once for the whole run.
type Settings struct {
	Headless    bool
	UserAgents  []string
	CookiesPath string
}

// CookieFile returns the board's cookie jar path under the configured
// cookies directory.
func (s Settings) CookieFile(board string) string {
	dir := s.CookiesPath
	if dir == "" {
		dir = ".cookies"
	}
	return filepath.Join(dir, board+".json")
}

// Config is the static per-board policy an adapter is built with.
// Immutable after construction; owned exclusively by its adapter.
type Config struct {
	Name       string
	BaseURL    string
	DelayMinMs int
	DelayMaxMs int
	MaxRetries int
	MaxPages   int
	Timeout    time.Duration
	Headless   bool
	UserAgents []string

	// optional JSON cookie jar injected before the first navigation, for
	// boards that gate results behind a signed-in session
	CookiesFile string

	// rate limiting window, exclusive to this adapter instance
	MaxRequestsPerWindow int
	Window               time.Duration
}
