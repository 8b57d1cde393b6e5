// Map a free-text location onto the boards worth scraping for it.
// Backed by the config store when available, a static table when not.

package location

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

const cacheTTL = 5 * time.Minute

// globalSources always ride along regardless of location, so coverage never
// drops to zero for an unrecognized input.
var globalSources = []string{"remoteok", "stackoverflow", "indeed"}

// defaultSources is the answer when nothing matches at all.
var defaultSources = []string{"indeed", "remoteok", "linkedin", "stackoverflow"}

// fallbackConfigs is the hardcoded routing table used when the config store
// is missing or unreachable. Mirrors the major markets.
var fallbackConfigs = []Config{
	{Region: "Remote", Country: "", Keywords: []string{"remote", "anywhere", "work from home", "wfh", "worldwide"}, Sources: []string{"remoteok", "weworkremotely", "stackoverflow"}, Priority: 100, Active: true},
	{Region: "Canada", Country: "CA", Keywords: []string{"canada", "toronto", "vancouver", "montreal", "ottawa", "calgary"}, Sources: []string{"jobbank", "indeed", "linkedin"}, Domain: "ca.indeed.com", Priority: 90, Active: true},
	{Region: "United Kingdom", Country: "GB", Keywords: []string{"united kingdom", "uk", "london", "manchester", "birmingham", "edinburgh"}, Sources: []string{"reed", "cwjobs", "indeed", "linkedin"}, Domain: "uk.indeed.com", Priority: 90, Active: true},
	{Region: "Australia", Country: "AU", Keywords: []string{"australia", "sydney", "melbourne", "brisbane", "perth"}, Sources: []string{"seek", "indeed", "linkedin"}, Domain: "au.indeed.com", Priority: 90, Active: true},
	{Region: "Germany", Country: "DE", Keywords: []string{"germany", "deutschland", "berlin", "munich", "hamburg", "frankfurt"}, Sources: []string{"stepstone", "xing", "indeed"}, Domain: "de.indeed.com", Priority: 85, Active: true},
	{Region: "France", Country: "FR", Keywords: []string{"france", "paris", "lyon", "toulouse"}, Sources: []string{"apec", "indeed", "linkedin"}, Domain: "fr.indeed.com", Priority: 85, Active: true},
	{Region: "India", Country: "IN", Keywords: []string{"india", "bangalore", "bengaluru", "mumbai", "delhi", "hyderabad", "pune"}, Sources: []string{"naukri", "indeed", "linkedin"}, Domain: "in.indeed.com", Priority: 85, Active: true},
	{Region: "Singapore", Country: "SG", Keywords: []string{"singapore"}, Sources: []string{"jobstreet", "indeed", "linkedin"}, Domain: "sg.indeed.com", Priority: 85, Active: true},
	{Region: "United States", Country: "US", Keywords: []string{"united states", "usa", "new york", "san francisco", "seattle", "austin", "boston", "chicago", "los angeles"}, Sources: []string{"indeed", "linkedin", "ziprecruiter", "glassdoor"}, Domain: "www.indeed.com", Priority: 80, Active: true},
}

// ConfigSource is the read-only view of the location store the selector needs.
type ConfigSource interface {
	ActiveConfigs(ctx context.Context) ([]Config, error)
}

// Selector resolves a free-text location to an ordered set of source ids.
// Store lookups are cached for 5 minutes; admin writes invalidate explicitly.
type Selector struct {
	store ConfigSource // nil means static-table only

	mu        sync.Mutex
	cached    []Config
	fetchedAt time.Time
}

func NewSelector(store ConfigSource) *Selector {
	return &Selector{store: store}
}

// Invalidate drops the cached config table. Wired to Store.OnWrite.
func (s *Selector) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
	log.Println("♻️ Location config cache invalidated")
}

// SourcesFor returns the boards to scrape for the given location text,
// highest-priority match first, always unioned with the global sources.
func (s *Selector) SourcesFor(ctx context.Context, locationText string) []string {
	configs := s.activeConfigs(ctx)

	loc := strings.ToLower(strings.TrimSpace(locationText))

	var recommended []string
	if loc != "" {
	match:
		for _, cfg := range configs {
			for _, kw := range cfg.Keywords {
				if kw != "" && strings.Contains(loc, strings.ToLower(kw)) {
					recommended = cfg.Sources
					break match
				}
			}
		}
	}
	if len(recommended) == 0 {
		recommended = defaultSources
	}

	// ordered union: recommended first, then the global coverage set
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(recommended)+len(globalSources))
	for _, src := range recommended {
		if seen.Add(src) {
			out = append(out, src)
		}
	}
	for _, src := range globalSources {
		if seen.Add(src) {
			out = append(out, src)
		}
	}
	return out
}

// activeConfigs returns the cached store table, refreshing it when the TTL
// has passed, and degrades to the static table when the store is missing or
// unreachable.
func (s *Selector) activeConfigs(ctx context.Context) []Config {
	if s.store == nil {
		return fallbackConfigs
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.fetchedAt) < cacheTTL {
		return s.cached
	}

	configs, err := s.store.ActiveConfigs(ctx)
	if err != nil {
		log.Printf("⚠️ Location store unavailable (%v). Using static fallback table.", err)
		return fallbackConfigs
	}
	if len(configs) == 0 {
		return fallbackConfigs
	}

	// the store already orders by priority; keep the invariant locally too
	sort.SliceStable(configs, func(i, j int) bool {
		return configs[i].Priority > configs[j].Priority
	})

	s.cached = configs
	s.fetchedAt = time.Now()
	return configs
}
