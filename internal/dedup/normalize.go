package dedup

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-jobradar/internal/scraper"
)

// JobType is the canonical employment-type enum.
type JobType string

const (
	FullTime   JobType = "Full-time"
	PartTime   JobType = "Part-time"
	Contract   JobType = "Contract"
	Temporary  JobType = "Temporary"
	Internship JobType = "Internship"
)

const (
	remoteLocation    = "Remote"
	maxDescriptionLen = 1000
)

// NormalizedJob is the canonical posting shape handed to callers.
type NormalizedJob struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	Type          JobType  `json:"type"`
	Salary        string   `json:"salary,omitempty"`
	Description   string   `json:"description"`
	URL           string   `json:"url"`
	PostedDate    string   `json:"postedDate"`
	Source        string   `json:"source"`
	Remote        bool     `json:"remote"`
	Tags          []string `json:"tags,omitempty"`
	CompanyRating float64  `json:"companyRating,omitempty"`

	// set on the representative of a duplicate group
	PrimarySource string   `json:"primarySource,omitempty"`
	DuplicateIDs  []string `json:"duplicateIds,omitempty"`
}

var (
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	legalSuffixRegex = regexp.MustCompile(`(?i)[,\s]+(inc|llc|ltd|corp|corporation|limited|gmbh|co)\.?\s*$`)
	relativeAgeRegex = regexp.MustCompile(`(?i)(\d+)\+?\s*(hour|day|week|month)s?\s*ago`)
)

// remotePhrases collapse to the literal "Remote" location sentinel.
var remotePhrases = []string{"remote", "work from home", "wfh", "anywhere", "worldwide"}

// Normalize converts one raw posting into the canonical shape.
func Normalize(p scraper.RawPosting, now time.Time) NormalizedJob {
	title := collapseWhitespace(p.Title)
	company := legalSuffixRegex.ReplaceAllString(collapseWhitespace(p.Company), "")

	location := collapseWhitespace(p.Location)
	remote := p.Remote
	lowerLoc := strings.ToLower(location)
	for _, phrase := range remotePhrases {
		if strings.Contains(lowerLoc, phrase) {
			remote = true
			break
		}
	}
	if remote {
		location = remoteLocation
	}

	description := collapseWhitespace(p.Description)
	if runes := []rune(description); len(runes) > maxDescriptionLen {
		description = string(runes[:maxDescriptionLen])
	}

	return NormalizedJob{
		ID:            contentID(title, company, location),
		Title:         title,
		Company:       company,
		Location:      location,
		Type:          mapJobType(p.JobType),
		Salary:        collapseWhitespace(p.Salary),
		Description:   description,
		URL:           p.URL,
		PostedDate:    normalizePostedDate(p.PostedDate, now),
		Source:        p.Source,
		Remote:        remote,
		Tags:          p.Tags,
		CompanyRating: p.CompanyRating,
	}
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// foldText lowercases and strips diacritics so "Montréal" and "Montreal"
// hash the same.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return strings.ToLower(result)
}

// contentID derives a deterministic id from (title, company, location).
// The same real-world posting scraped twice yields the same id before the
// deduplicator even runs.
func contentID(title, company, location string) string {
	h := fnv.New64a()
	h.Write([]byte(foldText(title)))
	h.Write([]byte{'-'})
	h.Write([]byte(foldText(company)))
	h.Write([]byte{'-'})
	h.Write([]byte(foldText(location)))
	return fmt.Sprintf("%016x", h.Sum64())
}

// mapJobType folds free-text employment phrasing onto the enum.
// Anything unrecognized defaults to Full-time.
func mapJobType(raw string) JobType {
	text := strings.ToLower(raw)
	switch {
	case strings.Contains(text, "intern"):
		return Internship
	case strings.Contains(text, "part"):
		return PartTime
	case strings.Contains(text, "temp"):
		return Temporary
	case strings.Contains(text, "contract"), strings.Contains(text, "freelance"):
		return Contract
	default:
		return FullTime
	}
}

// normalizePostedDate turns whatever date text a board served into an ISO
// timestamp. Absolute dates are parsed directly, relative ages ("3 days
// ago") are anchored at now, and anything unparseable falls back to now.
func normalizePostedDate(raw string, now time.Time) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return now.UTC().Format(time.RFC3339)
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "today") || strings.Contains(lower, "just posted") || strings.Contains(lower, "just now") {
		return now.UTC().Format(time.RFC3339)
	}
	if strings.Contains(lower, "yesterday") {
		return now.Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	}

	if m := relativeAgeRegex.FindStringSubmatch(lower); m != nil {
		n := 0
		fmt.Sscanf(m[1], "%d", &n)
		var age time.Duration
		switch m[2] {
		case "hour":
			age = time.Duration(n) * time.Hour
		case "day":
			age = time.Duration(n) * 24 * time.Hour
		case "week":
			age = time.Duration(n) * 7 * 24 * time.Hour
		case "month":
			age = time.Duration(n) * 30 * 24 * time.Hour
		}
		return now.Add(-age).UTC().Format(time.RFC3339)
	}

	return now.UTC().Format(time.RFC3339)
}
