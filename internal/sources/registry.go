// Package sources is the closed registry of board adapters. A fresh adapter
// instance is built per search so each scrape owns its rate limiter and
// browser exclusively.
package sources

import (
	"go-jobradar/internal/scraper"
	"go-jobradar/internal/scraper/glassdoor"
	"go-jobradar/internal/scraper/indeed"
	"go-jobradar/internal/scraper/linkedin"
	"go-jobradar/internal/scraper/remoteok"
	"go-jobradar/internal/scraper/stackoverflow"
	"go-jobradar/internal/scraper/ziprecruiter"
)

var builders = map[string]func(scraper.Settings) scraper.Scraper{
	"indeed":        func(s scraper.Settings) scraper.Scraper { return indeed.New(s) },
	"linkedin":      func(s scraper.Settings) scraper.Scraper { return linkedin.New(s) },
	"remoteok":      func(s scraper.Settings) scraper.Scraper { return remoteok.New(s) },
	"stackoverflow": func(s scraper.Settings) scraper.Scraper { return stackoverflow.New(s) },
	"glassdoor":     func(s scraper.Settings) scraper.Scraper { return glassdoor.New(s) },
	"ziprecruiter":  func(s scraper.Settings) scraper.Scraper { return ziprecruiter.New(s) },
}

// New builds a fresh adapter for the given source id with the shared settings.
func New(name string, settings scraper.Settings) (scraper.Scraper, bool) {
	builder, ok := builders[name]
	if !ok {
		return nil, false
	}
	return builder(settings), true
}

// Known lists every registered source id.
func Known() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	return names
}
