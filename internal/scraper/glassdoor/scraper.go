// Glassdoor sits in the upper-middle risk tier: it tolerates pagination but
// challenges quickly when requests come in too fast.

package glassdoor

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
			Name:                 "glassdoor",
			BaseURL:              "https://www.glassdoor.com",
			DelayMinMs:           4000,
			DelayMaxMs:           7000,
			MaxRetries:           3,
			MaxPages:             3,
			Timeout:              35 * time.Second,
			Headless:             settings.Headless,
			UserAgents:           settings.UserAgents,
			MaxRequestsPerWindow: 8,
			Window:               time.Minute,
			CookiesFile:          settings.CookieFile("glassdoor"),
		}),
	}
}

func (s *Scraper) Name() string {
	return "glassdoor"
}

func (s *Scraper) Close() {
	s.base.Session.Close()
}

func (s *Scraper) Scrape(ctx context.Context, query string, opts scraper.SearchOptions) scraper.ScrapeResult {
	return s.base.Run(ctx, query, opts, s.buildURL, s.extract, "[data-test=\"jobListing\"], .JobsList_jobListItem")
}

func (s *Scraper) buildURL(query string, opts scraper.SearchOptions, page int) string {
	params := url.Values{}
	params.Set("sc.keyword", query)

	if opts.Remote {
		params.Set("remoteWorkType", "1")
	} else if opts.Location != "" {
		params.Set("locKeyword", opts.Location)
	}
	if page > 1 {
		params.Set("p", strconv.Itoa(page))
	}

	return s.base.Config.BaseURL + "/Job/jobs.htm?" + params.Encode()
}

func (s *Scraper) extract(page playwright.Page) ([]scraper.RawPosting, error) {
	cards, err := page.Locator("[data-test=\"jobListing\"]").All()
	if err != nil {
		return nil, err
	}

	var postings []scraper.RawPosting
	for _, card := range cards {
		titleEl := card.Locator("[data-test=\"job-title\"], .JobCard_jobTitle").First()
		title, _ := titleEl.TextContent()
		href, _ := titleEl.GetAttribute("href")

		company, _ := card.Locator(".EmployerProfile_compactEmployerName, [data-test=\"employer-name\"]").First().TextContent()
		location, _ := card.Locator("[data-test=\"emp-location\"]").First().TextContent()

		salary := ""
		salaryEl := card.Locator("[data-test=\"detailSalary\"]").First()
		if count, _ := salaryEl.Count(); count > 0 {
			salary, _ = salaryEl.TextContent()
		}

		// company rating is Glassdoor's distinguishing field
		rating := 0.0
		ratingEl := card.Locator(".EmployerProfile_ratingContainer, [data-test=\"rating\"]").First()
		if count, _ := ratingEl.Count(); count > 0 {
			if txt, err := ratingEl.TextContent(); err == nil {
				rating, _ = strconv.ParseFloat(strings.TrimSpace(txt), 64)
			}
		}

		posted, _ := card.Locator("[data-test=\"job-age\"]").First().TextContent()

		if href != "" && !strings.HasPrefix(href, "http") {
			href = s.base.Config.BaseURL + href
		}

		loc := strings.TrimSpace(location)
		postings = append(postings, scraper.RawPosting{
			Title:         strings.TrimSpace(title),
			Company:       strings.TrimSpace(company),
			Location:      loc,
			Salary:        strings.TrimSpace(salary),
			URL:           href,
			PostedDate:    strings.TrimSpace(posted),
			CompanyRating: rating,
			Remote:        strings.Contains(strings.ToLower(loc), "remote"),
		})
	}

	return postings, nil
}
