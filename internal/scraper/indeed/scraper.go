package indeed

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobradar/internal/scraper"
)

// jobTypeParams maps our job-type filter onto Indeed's jt query parameter.
var jobTypeParams = map[string]string{
	"full-time":  "fulltime",
	"part-time":  "parttime",
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
			Name:                 "indeed",
			BaseURL:              "https://www.indeed.com",
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
	return "indeed"
}

func (s *Scraper) Close() {
	s.base.Session.Close()
}

func (s *Scraper) Scrape(ctx context.Context, query string, opts scraper.SearchOptions) scraper.ScrapeResult {
	return s.base.Run(ctx, query, opts, s.buildURL, s.extract, ".job_seen_beacon, .jobsearch-ResultsList")
}

func (s *Scraper) buildURL(query string, opts scraper.SearchOptions, page int) string {
	params := url.Values{}
	params.Set("q", query)

	if opts.Remote {
		params.Set("l", "Remote")
	} else if opts.Location != "" {
		params.Set("l", opts.Location)
	}

	if jt, ok := jobTypeParams[strings.ToLower(opts.JobType)]; ok {
		params.Set("jt", jt)
	}

	// Indeed paginates in steps of 10
	if page > 1 {
		params.Set("start", strconv.Itoa((page-1)*10))
	}

	return s.base.Config.BaseURL + "/jobs?" + params.Encode()
}

func (s *Scraper) extract(page playwright.Page) ([]scraper.RawPosting, error) {
	cards, err := page.Locator(".job_seen_beacon").All()
	if err != nil {
		return nil, err
	}

	var postings []scraper.RawPosting
	for _, card := range cards {
		titleEl := card.Locator("h2.jobTitle a, h2.jobTitle span[title]").First()
		title, _ := titleEl.TextContent()
		href, _ := card.Locator("h2.jobTitle a").First().GetAttribute("href")

		company, _ := card.Locator("[data-testid=\"company-name\"], .companyName").First().TextContent()
		location, _ := card.Locator("[data-testid=\"text-location\"], .companyLocation").First().TextContent()

		salary := ""
		salaryEl := card.Locator(".salary-snippet-container, [data-testid=\"attribute_snippet_testid\"]").First()
		if count, _ := salaryEl.Count(); count > 0 {
			salary, _ = salaryEl.TextContent()
		}

		snippet, _ := card.Locator(".job-snippet, [data-testid=\"jobsnippet_footer\"]").First().TextContent()
		posted, _ := card.Locator(".date, [data-testid=\"myJobsStateDate\"]").First().TextContent()

		rating := 0.0
		ratingEl := card.Locator(".ratingNumber, [data-testid=\"holistic-rating\"]").First()
		if count, _ := ratingEl.Count(); count > 0 {
			if txt, err := ratingEl.TextContent(); err == nil {
				rating, _ = strconv.ParseFloat(strings.TrimSpace(txt), 64)
			}
		}

		jobURL := href
		if jobURL != "" && !strings.HasPrefix(jobURL, "http") {
			jobURL = s.base.Config.BaseURL + jobURL
		}

		postings = append(postings, scraper.RawPosting{
			Title:         strings.TrimSpace(title),
			Company:       strings.TrimSpace(company),
			Location:      strings.TrimSpace(location),
			Salary:        strings.TrimSpace(salary),
			Description:   strings.TrimSpace(snippet),
			URL:           jobURL,
			PostedDate:    strings.TrimSpace(posted),
			CompanyRating: rating,
			Remote:        strings.Contains(strings.ToLower(location), "remote"),
		})
	}

	return postings, nil
}
