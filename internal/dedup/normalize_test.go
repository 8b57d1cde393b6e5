package dedup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-jobradar/internal/scraper"
)

var testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func TestContentID_Deterministic(t *testing.T) {
	a := contentID("Senior Backend Engineer", "Acme", "Toronto, ON")
	b := contentID("Senior Backend Engineer", "Acme", "Toronto, ON")
	assert.Equal(t, a, b)

	c := contentID("Senior Backend Engineer", "Acme", "Vancouver, BC")
	assert.NotEqual(t, a, c)
}

func TestContentID_CaseAndDiacriticsFolded(t *testing.T) {
	assert.Equal(t,
		contentID("Engineer", "ACME", "Montréal"),
		contentID("engineer", "acme", "montreal"),
	)
}

func TestNormalize_CollapsesWhitespaceInTitle(t *testing.T) {
	job := Normalize(scraper.RawPosting{
		Title:   "  Senior   Backend\tEngineer ",
		Company: "Acme",
	}, testNow)
	assert.Equal(t, "Senior Backend Engineer", job.Title)
}

func TestNormalize_StripsLegalSuffixes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Google Inc.", "Google"},
		{"Acme, LLC", "Acme"},
		{"Initech Ltd", "Initech"},
		{"Umbrella Corp.", "Umbrella"},
		{"Stark Industries", "Stark Industries"},
	}
	for _, tt := range tests {
		job := Normalize(scraper.RawPosting{Title: "Engineer", Company: tt.raw}, testNow)
		assert.Equal(t, tt.want, job.Company, "company %q", tt.raw)
	}
}

func TestNormalize_RemotePhrasingCollapsesToSentinel(t *testing.T) {
	tests := []struct {
		location string
		remote   bool
	}{
		{"Remote", true},
		{"Remote - US", true},
		{"Work From Home", true},
		{"WFH", true},
		{"Anywhere", true},
		{"New York, NY", false},
	}
	for _, tt := range tests {
		job := Normalize(scraper.RawPosting{Title: "Engineer", Company: "Acme", Location: tt.location}, testNow)
		assert.Equal(t, tt.remote, job.Remote, "location %q", tt.location)
		if tt.remote {
			assert.Equal(t, "Remote", job.Location)
		} else {
			assert.Equal(t, tt.location, job.Location)
		}
	}
}

func TestNormalize_RemoteFlagForcesSentinel(t *testing.T) {
	job := Normalize(scraper.RawPosting{Title: "Engineer", Company: "Acme", Location: "Berlin", Remote: true}, testNow)
	assert.Equal(t, "Remote", job.Location)
	assert.True(t, job.Remote)
}

func TestMapJobType(t *testing.T) {
	tests := []struct {
		raw  string
		want JobType
	}{
		{"Full-time", FullTime},
		{"part time", PartTime},
		{"Contractor", Contract},
		{"freelance", Contract},
		{"Temp position", Temporary},
		{"Summer Internship", Internship},
		{"", FullTime},
		{"whatever", FullTime},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapJobType(tt.raw), "raw %q", tt.raw)
	}
}

func TestNormalize_DescriptionCapped(t *testing.T) {
	job := Normalize(scraper.RawPosting{
		Title:       "Engineer",
		Company:     "Acme",
		Description: strings.Repeat("a", 1500),
	}, testNow)
	assert.Len(t, job.Description, 1000)
}

func TestNormalizePostedDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"rfc3339 passthrough", "2026-08-20T10:00:00Z", "2026-08-20T10:00:00Z"},
		{"date only", "2026-08-20", "2026-08-20T00:00:00Z"},
		{"today", "Today", testNow.Format(time.RFC3339)},
		{"days ago", "3 days ago", testNow.Add(-3 * 24 * time.Hour).Format(time.RFC3339)},
		{"hours ago", "5 hours ago", testNow.Add(-5 * time.Hour).Format(time.RFC3339)},
		{"thirty plus", "30+ days ago", testNow.Add(-30 * 24 * time.Hour).Format(time.RFC3339)},
		{"garbage", "Recently", testNow.Format(time.RFC3339)},
		{"empty", "", testNow.Format(time.RFC3339)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePostedDate(tt.raw, testNow))
		})
	}
}
