// RemoteOK lists remote-only positions, so every posting comes back with the
// remote flag already set and the location pinned to "Remote".

package remoteok

import (
	"context"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobradar/internal/scraper"
	"go-jobradar/utils"
)

type Scraper struct {
	base *scraper.Base
}

func New(settings scraper.Settings) *Scraper {
	return &Scraper{
		base: scraper.NewBase(scraper.Config{
			Name:                 "remoteok",
			BaseURL:              "https://remoteok.com",
			DelayMinMs:           2500,
			DelayMaxMs:           4500,
			MaxRetries:           3,
			MaxPages:             1, // single long page, lazy-loaded
			Timeout:              30 * time.Second,
			Headless:             settings.Headless,
			UserAgents:           settings.UserAgents,
			MaxRequestsPerWindow: 10,
			Window:               time.Minute,
		}),
	}
}

func (s *Scraper) Name() string {
	return "remoteok"
}

func (s *Scraper) Close() {
	s.base.Session.Close()
}

func (s *Scraper) Scrape(ctx context.Context, query string, opts scraper.SearchOptions) scraper.ScrapeResult {
	return s.base.Run(ctx, query, opts, s.buildURL, s.extract, "tr.job")
}

func (s *Scraper) buildURL(query string, opts scraper.SearchOptions, page int) string {
	// RemoteOK routes searches as slugged tag paths: "golang developer" ->
	// /remote-golang-developer-jobs
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), " ", "-")
	return s.base.Config.BaseURL + "/remote-" + slug + "-jobs"
}

func (s *Scraper) extract(page playwright.Page) ([]scraper.RawPosting, error) {
	// the board is one long lazy-loaded page; walk it in viewport steps so
	// the rows below the fold actually render before we read them
	if err := utils.HumanScroll(page); err != nil {
		return nil, err
	}

	rows, err := page.Locator("tr.job").All()
	if err != nil {
		return nil, err
	}

	var postings []scraper.RawPosting
	for _, row := range rows {
		title, _ := row.Locator("h2[itemprop=\"title\"], td.position h2").First().TextContent()
		company, _ := row.Locator("h3[itemprop=\"name\"], td.position h3").First().TextContent()

		href, _ := row.GetAttribute("data-href")
		if href != "" && !strings.HasPrefix(href, "http") {
			href = s.base.Config.BaseURL + href
		}

		salary := ""
		salaryEl := row.Locator(".salary").First()
		if count, _ := salaryEl.Count(); count > 0 {
			salary, _ = salaryEl.TextContent()
		}

		var tags []string
		tagEls, _ := row.Locator(".tags .tag").All()
		for _, tagEl := range tagEls {
			if txt, err := tagEl.TextContent(); err == nil {
				if tag := strings.TrimSpace(txt); tag != "" {
					tags = append(tags, tag)
				}
			}
		}

		posted := ""
		timeEl := row.Locator("time").First()
		if count, _ := timeEl.Count(); count > 0 {
			if dt, err := timeEl.GetAttribute("datetime"); err == nil && dt != "" {
				posted = dt
			}
		}

		postings = append(postings, scraper.RawPosting{
			Title:      strings.TrimSpace(title),
			Company:    strings.TrimSpace(company),
			Location:   "Remote",
			Salary:     strings.TrimSpace(salary),
			URL:        href,
			PostedDate: posted,
			Tags:       tags,
			Remote:     true,
		})
	}

	return postings, nil
}
