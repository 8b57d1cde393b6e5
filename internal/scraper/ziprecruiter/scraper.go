package ziprecruiter

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
	"full-time":  "full_time",
	"part-time":  "part_time",
	"contract":   "contract",
	"temporary":  "temporary",
	"internship": "internship",
}

type Scraper struct {
	base *scraper.Base
}

func New(settings scraper.Settings) *Scraper {
	return &Scraper{
		base: scraper.NewBase(scraper.Config{
			Name:                 "ziprecruiter",
			BaseURL:              "https://www.ziprecruiter.com",
			DelayMinMs:           2500,
			DelayMaxMs:           4500,
			MaxRetries:           3,
			MaxPages:             5,
			Timeout:              30 * time.Second,
			Headless:             settings.Headless,
			UserAgents:           settings.UserAgents,
			MaxRequestsPerWindow: 10,
			Window:               time.Minute,
		}),
	}
}

func (s *Scraper) Name() string {
	return "ziprecruiter"
}

func (s *Scraper) Close() {
	s.base.Session.Close()
}

func (s *Scraper) Scrape(ctx context.Context, query string, opts scraper.SearchOptions) scraper.ScrapeResult {
	return s.base.Run(ctx, query, opts, s.buildURL, s.extract, ".job_result, [data-testid=\"job-card\"]")
}

func (s *Scraper) buildURL(query string, opts scraper.SearchOptions, page int) string {
	params := url.Values{}
	params.Set("search", query)

	if opts.Remote {
		params.Set("refine_by_location_type", "only_remote")
	} else if opts.Location != "" {
		params.Set("location", opts.Location)
	}
	if jt, ok := jobTypeParams[strings.ToLower(opts.JobType)]; ok {
		params.Set("refine_by_employment", "employment_type:"+jt)
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	return s.base.Config.BaseURL + "/jobs-search?" + params.Encode()
}

func (s *Scraper) extract(page playwright.Page) ([]scraper.RawPosting, error) {
	cards, err := page.Locator(".job_result, [data-testid=\"job-card\"]").All()
	if err != nil {
		return nil, err
	}

	var postings []scraper.RawPosting
	for _, card := range cards {
		titleEl := card.Locator("h2 a, [data-testid=\"job-card-title\"]").First()
		title, _ := titleEl.TextContent()
		href, _ := titleEl.GetAttribute("href")

		company, _ := card.Locator("[data-testid=\"job-card-company\"], .company_name").First().TextContent()
		location, _ := card.Locator("[data-testid=\"job-card-location\"], .location").First().TextContent()

		// ZipRecruiter surfaces estimated pay more often than most boards
		salary := ""
		salaryEl := card.Locator(".perks_item--pay, [data-testid=\"job-card-pay\"]").First()
		if count, _ := salaryEl.Count(); count > 0 {
			salary, _ = salaryEl.TextContent()
		}

		snippet, _ := card.Locator(".job_snippet").First().TextContent()
		posted, _ := card.Locator(".posted_time, [data-testid=\"job-card-posted\"]").First().TextContent()

		if href != "" && !strings.HasPrefix(href, "http") {
			href = s.base.Config.BaseURL + href
		}

		loc := strings.TrimSpace(location)
		postings = append(postings, scraper.RawPosting{
			Title:       strings.TrimSpace(title),
			Company:     strings.TrimSpace(company),
			Location:    loc,
			Salary:      strings.TrimSpace(salary),
			Description: strings.TrimSpace(snippet),
			URL:         href,
			PostedDate:  strings.TrimSpace(posted),
			Remote:      strings.Contains(strings.ToLower(loc), "remote"),
		})
	}

	return postings, nil
}
