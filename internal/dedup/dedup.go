// Collapse near-identical postings surfaced by multiple boards into one
// canonical record per real-world opening.

package dedup

import (
	"log"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"go-jobradar/internal/scraper"
)

const defaultTitleThreshold = 0.85

// sourceTrust ranks boards by how complete and current their postings tend
// to be. Unknown sources score 5.
var sourceTrust = map[string]int{
	"linkedin":      30,
	"indeed":        28,
	"glassdoor":     24,
	"stackoverflow": 22,
	"ziprecruiter":  18,
	"remoteok":      15,
}

// Stats summarizes one deduplication pass. Derived, never persisted.
type Stats struct {
	TotalInput        int            `json:"totalInput"`
	UniqueOutput      int            `json:"uniqueOutput"`
	DuplicatesRemoved int            `json:"duplicatesRemoved"`
	DuplicateRate     float64        `json:"duplicateRate"`
	BySource          map[string]int `json:"bySource"`
}

// Deduplicator normalizes raw postings, groups near-duplicates and selects
// one representative per group.
type Deduplicator struct {
	titleThreshold float64
	now            func() time.Time
}

func New() *Deduplicator {
	return &Deduplicator{
		titleThreshold: defaultTitleThreshold,
		now:            time.Now,
	}
}

// Deduplicate runs the full pipeline: normalize, group, pick representatives,
// compute stats. Per-source counts are taken from the input postings, not the
// surviving representatives.
func (d *Deduplicator) Deduplicate(postings []scraper.RawPosting) ([]NormalizedJob, Stats) {
	now := d.now()

	jobs := make([]NormalizedJob, 0, len(postings))
	bySource := make(map[string]int)
	for _, p := range postings {
		jobs = append(jobs, Normalize(p, now))
		bySource[p.Source]++
	}

	groups := d.group(jobs)

	unique := make([]NormalizedJob, 0, len(groups))
	for _, g := range groups {
		unique = append(unique, d.selectRepresentative(g, now))
	}

	stats := Stats{
		TotalInput:        len(postings),
		UniqueOutput:      len(unique),
		DuplicatesRemoved: len(postings) - len(unique),
		BySource:          bySource,
	}
	if stats.TotalInput > 0 {
		stats.DuplicateRate = float64(stats.DuplicatesRemoved) / float64(stats.TotalInput) * 100
	}

	if stats.DuplicatesRemoved > 0 {
		log.Printf("🔍 Deduplication: %d postings -> %d unique (%.1f%% duplicates)",
			stats.TotalInput, stats.UniqueOutput, stats.DuplicateRate)
	}

	return unique, stats
}

// group accumulates jobs into duplicate groups with a single pass. Each job
// is compared against the seed (first member) of every existing group only —
// a deliberate bounded-cost trade-off at the scale of a few hundred postings
// per search.
func (d *Deduplicator) group(jobs []NormalizedJob) [][]NormalizedJob {
	var groups [][]NormalizedJob

	for _, job := range jobs {
		placed := false
		for i := range groups {
			if d.sameListing(groups[i][0], job) {
				groups[i] = append(groups[i], job)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []NormalizedJob{job})
		}
	}

	return groups
}

// sameListing decides whether two normalized jobs describe the same opening:
// equal company (case-insensitive), title similarity above threshold and
// compatible locations.
func (d *Deduplicator) sameListing(a, b NormalizedJob) bool {
	if !strings.EqualFold(a.Company, b.Company) {
		return false
	}
	if TitleSimilarity(a.Title, b.Title) < d.titleThreshold {
		return false
	}
	return locationsCompatible(a, b)
}

// TitleSimilarity is 1 - levenshtein/maxLen over the case-folded titles.
func TitleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

func locationsCompatible(a, b NormalizedJob) bool {
	if strings.EqualFold(a.Location, b.Location) {
		return true
	}
	if a.Remote && b.Remote {
		return true
	}
	return strings.Contains(strings.ToLower(a.Location), "remote") &&
		strings.Contains(strings.ToLower(b.Location), "remote")
}

// selectRepresentative scores every group member for completeness, source
// trust and recency, and returns the winner carrying the other members' ids.
func (d *Deduplicator) selectRepresentative(group []NormalizedJob, now time.Time) NormalizedJob {
	if len(group) == 1 {
		return group[0]
	}

	best := 0
	bestScore := d.score(group[0], now)
	for i := 1; i < len(group); i++ {
		if s := d.score(group[i], now); s > bestScore {
			best = i
			bestScore = s
		}
	}

	rep := group[best]
	rep.PrimarySource = rep.Source

	seen := map[string]bool{rep.ID: true}
	for i, member := range group {
		if i == best || seen[member.ID] {
			continue
		}
		seen[member.ID] = true
		rep.DuplicateIDs = append(rep.DuplicateIDs, member.ID)
	}

	return rep
}

// score rates a posting on data completeness (max 50), source trust (max 30)
// and recency (max 20).
func (d *Deduplicator) score(job NormalizedJob, now time.Time) int {
	s := 0

	// completeness
	if job.Salary != "" {
		s += 15
	}
	if len(job.Description) > 100 {
		s += 15
	}
	if job.URL != "" {
		s += 10
	}
	if job.CompanyRating > 0 {
		s += 5
	}
	if len(job.Tags) > 0 {
		s += 5
	}

	// source trust
	if trust, ok := sourceTrust[strings.ToLower(job.Source)]; ok {
		s += trust
	} else {
		s += 5
	}

	// recency
	s += recencyScore(job.PostedDate, now)

	return s
}

func recencyScore(postedDate string, now time.Time) int {
	t, err := time.Parse(time.RFC3339, postedDate)
	if err != nil {
		return 5
	}

	age := now.Sub(t)
	switch {
	case age < 24*time.Hour:
		return 20
	case age < 7*24*time.Hour:
		return 15
	case age < 30*24*time.Hour:
		return 10
	default:
		return 5
	}
}
