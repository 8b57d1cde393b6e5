// LinkedIn is the most aggressive board we touch. The risk tier here is
// deliberately conservative: 2 pages max, 8-12s between requests, only 2
// retries, and a 40s navigation timeout. Do not loosen these without a very
// good reason.

package linkedin

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobradar/internal/scraper"
)

var jobTypeParams = map[string]string{
	"full-time":  "F",
	"part-time":  "P",
	"contract":   "C",
	"temporary":  "T",
	"internship": "I",
}

var experienceParams = map[string]string{
	"internship": "1",
	"entry":      "2",
	"associate":  "3",
	"mid-senior": "4",
	"director":   "5",
	"executive":  "6",
}

type Scraper struct {
	base *scraper.Base
}

func New(settings scraper.Settings) *Scraper {
	return &Scraper{
		base: scraper.NewBase(scraper.Config{
			Name:                 "linkedin",
			BaseURL:              "https://www.linkedin.com",
			DelayMinMs:           8000,
			DelayMaxMs:           12000,
			MaxRetries:           2,
			MaxPages:             2,
			Timeout:              40 * time.Second,
			Headless:             settings.Headless,
			UserAgents:           settings.UserAgents,
			MaxRequestsPerWindow: 5,
			Window:               time.Minute,
			CookiesFile:          settings.CookieFile("linkedin"),
		}),
	}
}

func (s *Scraper) Name() string {
	return "linkedin"
}

func (s *Scraper) Close() {
	s.base.Session.Close()
}

func (s *Scraper) Scrape(ctx context.Context, query string, opts scraper.SearchOptions) scraper.ScrapeResult {
	return s.base.Run(ctx, query, opts, s.buildURL, s.extract, ".jobs-search__results-list li, .job-search-card")
}

func (s *Scraper) buildURL(query string, opts scraper.SearchOptions, page int) string {
	params := url.Values{}
	params.Set("keywords", query)

	if opts.Location != "" {
		params.Set("location", opts.Location)
	}
	if opts.Remote {
		// f_WT=2 is LinkedIn's remote workplace-type filter
		params.Set("f_WT", "2")
	}
	if jt, ok := jobTypeParams[strings.ToLower(opts.JobType)]; ok {
		params.Set("f_JT", jt)
	}
	if exp, ok := experienceParams[strings.ToLower(opts.ExperienceLevel)]; ok {
		params.Set("f_E", exp)
	}
	if page > 1 {
		params.Set("start", strconv.Itoa((page-1)*25))
	}

	return s.base.Config.BaseURL + "/jobs/search?" + params.Encode()
}

func (s *Scraper) extract(page playwright.Page) ([]scraper.RawPosting, error) {
	cards, err := page.Locator(".job-search-card, .base-card").All()
	if err != nil {
		return nil, err
	}

	var postings []scraper.RawPosting
	for _, card := range cards {
		title, _ := card.Locator("h3.base-search-card__title").First().TextContent()
		company, _ := card.Locator("h4.base-search-card__subtitle").First().TextContent()
		location, _ := card.Locator(".job-search-card__location").First().TextContent()

		href, _ := card.Locator("a.base-card__full-link").First().GetAttribute("href")
		// Strip tracking params so the same job yields the same URL across runs.
		if idx := strings.Index(href, "?"); idx >= 0 {
			href = href[:idx]
		}

		posted := ""
		postedEl := card.Locator("time.job-search-card__listdate, time").First()
		if count, _ := postedEl.Count(); count > 0 {
			if dt, err := postedEl.GetAttribute("datetime"); err == nil && dt != "" {
				posted = dt
			} else {
				posted, _ = postedEl.TextContent()
			}
		}

		loc := strings.TrimSpace(location)
		postings = append(postings, scraper.RawPosting{
			Title:      strings.TrimSpace(title),
			Company:    strings.TrimSpace(company),
			Location:   loc,
			URL:        href,
			PostedDate: strings.TrimSpace(posted),
			Remote:     strings.Contains(strings.ToLower(loc), "remote"),
		})
	}

	return postings, nil
}
