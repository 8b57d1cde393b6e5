package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobradar/internal/browser"
	"go-jobradar/utils"
)

const defaultResultLimit = 25

// blockMarkers are substrings of page title/body that mean the board served a
// verification page instead of results. Matching is case-insensitive.
var blockMarkers = []string{
	"just a moment",
	"attention required",
	"cloudflare",
	"verify you are a human",
	"are you a robot",
	"unusual traffic",
	"captcha",
}

// URLBuilder builds the board-specific search URL for one results page.
type URLBuilder func(query string, opts SearchOptions, page int) string

// Extractor reads zero or more raw postings out of a loaded results page.
type Extractor func(page playwright.Page) ([]RawPosting, error)

// Base carries the machinery every board adapter shares: its config, an
// exclusive rate limiter and an exclusive stealth browser session. Adapters
// differ only in URL building and selector sets; the scrape pipeline itself
// is uniform and lives here.
type Base struct {
	Config  Config
	Limiter *RateLimiter
	Session *browser.Session

	shots *utils.ScreenShotDebugger
}

func NewBase(cfg Config) *Base {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	session := browser.NewSession(cfg.Headless, cfg.UserAgents)
	if cfg.CookiesFile != "" {
		session.UseCookieFile(cfg.CookiesFile)
	}
	return &Base{
		Config:  cfg,
		Limiter: NewRateLimiter(cfg.Name, cfg.MaxRequestsPerWindow, cfg.Window),
		Session: session,
		shots:   utils.NewScreenShotDebugger(),
	}
}

// Run executes the full scrape for one search: retries around the page
// pipeline, then wraps the outcome in a ScrapeResult. It never returns an
// error — failures are carried inside the result so the orchestrator can
// isolate them.
func (b *Base) Run(ctx context.Context, query string, opts SearchOptions, buildURL URLBuilder, extract Extractor, waitSelector string) ScrapeResult {
	start := time.Now()
	log.Printf("🔍 [%s] Searching for %q...", b.Config.Name, query)

	var postings []RawPosting
	err := WithRetry(ctx, b.Config.Name, b.Config.MaxRetries, func() error {
		found, scrapeErr := b.scrapeOnce(ctx, query, opts, buildURL, extract, waitSelector)
		if scrapeErr != nil {
			return scrapeErr
		}
		postings = found
		return nil
	})

	result := ScrapeResult{
		Source:   b.Config.Name,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Err = err
		return result
	}

	result.Success = true
	result.Postings = postings
	result.ItemsScraped = len(postings)
	log.Printf("✅ [%s] Found %d postings in %v", b.Config.Name, len(postings), result.Duration.Round(time.Millisecond))
	return result
}

// scrapeOnce is one attempt: paginate until the board runs dry, the page cap
// is hit or the result limit is reached.
func (b *Base) scrapeOnce(ctx context.Context, query string, opts SearchOptions, buildURL URLBuilder, extract Extractor, waitSelector string) ([]RawPosting, error) {
	page, err := b.Session.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}

	var out []RawPosting
	for pageNum := 1; pageNum <= b.Config.MaxPages && len(out) < limit; pageNum++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if err := b.Limiter.Admit(ctx); err != nil {
			return nil, err
		}

		// humanization jitter between requests
		utils.RandomDelay(b.Config.DelayMinMs, b.Config.DelayMaxMs)

		searchURL := buildURL(query, opts, pageNum)
		if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(float64(b.Config.Timeout.Milliseconds())),
		}); err != nil {
			return nil, fmt.Errorf("navigation to %s failed: %w", searchURL, err)
		}

		if err := b.checkBlocked(page); err != nil {
			return nil, err
		}

		// Selector absent means the board has nothing for this query — an
		// empty result, not an error.
		if waitSelector != "" {
			if _, err := page.WaitForSelector(waitSelector, playwright.PageWaitForSelectorOptions{
				Timeout: playwright.Float(8000),
			}); err != nil {
				log.Printf("  ℹ️ [%s] No results on page %d", b.Config.Name, pageNum)
				break
			}
		}

		utils.MouseJiggle(page)
		utils.SmoothScroll(page)

		batch, err := extract(page)
		if err != nil {
			return nil, fmt.Errorf("extraction failed: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, p := range batch {
			// a posting missing its required fields is dropped, not an error
			if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Company) == "" {
				continue
			}
			p.Source = b.Config.Name
			out = append(out, p)
			if len(out) >= limit {
				break
			}
		}
	}

	return out, nil
}

// checkBlocked reports an error when the page is a bot-verification page.
// The error is retryable like any other; see the retry executor.
func (b *Base) checkBlocked(page playwright.Page) error {
	title, _ := page.Title()
	body, _ := page.Locator("body").InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(2000),
	})

	haystack := strings.ToLower(title + " " + body)
	for _, marker := range blockMarkers {
		if strings.Contains(haystack, marker) {
			b.shots.CaptureAndLog(page, b.Config.Name+"-blocked", fmt.Sprintf("🚨 %s: verification page detected (%q)", b.Config.Name, marker))
			return fmt.Errorf("%s blocked the request: verification page (%q)", b.Config.Name, marker)
		}
	}
	return nil
}
