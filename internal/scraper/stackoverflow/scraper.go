package stackoverflow

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobradar/internal/scraper"
)

type Scraper struct {
	base *scraper.Base
}

func New(settings scraper.Settings) *Scraper {
	return &Scraper{
		base: scraper.NewBase(scraper.Config{
			Name:                 "stackoverflow",
			BaseURL:              "https://stackoverflow.jobs",
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
	return "stackoverflow"
}

func (s *Scraper) Close() {
	s.base.Session.Close()
}

func (s *Scraper) Scrape(ctx context.Context, query string, opts scraper.SearchOptions) scraper.ScrapeResult {
	return s.base.Run(ctx, query, opts, s.buildURL, s.extract, ".job-listing, .listResults .grid--cell")
}

func (s *Scraper) buildURL(query string, opts scraper.SearchOptions, page int) string {
	params := url.Values{}
	params.Set("q", query)

	if opts.Remote {
		params.Set("r", "true")
	} else if opts.Location != "" {
		params.Set("l", opts.Location)
	}
	if page > 1 {
		params.Set("pg", strconv.Itoa(page))
	}

	return s.base.Config.BaseURL + "/search?" + params.Encode()
}

func (s *Scraper) extract(page playwright.Page) ([]scraper.RawPosting, error) {
	cards, err := page.Locator(".job-listing").All()
	if err != nil {
		return nil, err
	}

	var postings []scraper.RawPosting
	for _, card := range cards {
		titleEl := card.Locator("h2 a, .job-link").First()
		title, _ := titleEl.TextContent()
		href, _ := titleEl.GetAttribute("href")

		company, _ := card.Locator(".job-company, h3 span").First().TextContent()
		location, _ := card.Locator(".job-location, .fc-black-500").First().TextContent()

		salary := ""
		salaryEl := card.Locator(".salary, .job-salary").First()
		if count, _ := salaryEl.Count(); count > 0 {
			salary, _ = salaryEl.TextContent()
		}

		var tags []string
		tagEls, _ := card.Locator(".post-tag").All()
		for _, tagEl := range tagEls {
			if txt, err := tagEl.TextContent(); err == nil {
				if tag := strings.TrimSpace(txt); tag != "" {
					tags = append(tags, tag)
				}
			}
		}

		posted, _ := card.Locator(".job-posted, .fc-black-300").First().TextContent()

		if href != "" && !strings.HasPrefix(href, "http") {
			href = s.base.Config.BaseURL + href
		}

		loc := strings.TrimSpace(location)
		postings = append(postings, scraper.RawPosting{
			Title:      strings.TrimSpace(title),
			Company:    strings.TrimSpace(company),
			Location:   loc,
			Salary:     strings.TrimSpace(salary),
			URL:        href,
			PostedDate: strings.TrimSpace(posted),
			Tags:       tags,
			Remote:     strings.Contains(strings.ToLower(loc), "remote"),
		})
	}

	return postings, nil
}
