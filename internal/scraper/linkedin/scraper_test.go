package linkedin

import (
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobradar/internal/scraper"
)

func queryOf(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestBuildURL_Filters(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	raw := s.buildURL("golang developer", scraper.SearchOptions{
		Location:        "Berlin",
		Remote:          true,
		JobType:         "Contract",
		ExperienceLevel: "Mid-Senior",
	}, 1)

	q := queryOf(t, raw)
	assert.Equal(t, "golang developer", q.Get("keywords"))
	assert.Equal(t, "Berlin", q.Get("location"))
	assert.Equal(t, "2", q.Get("f_WT"))
	assert.Equal(t, "C", q.Get("f_JT"))
	assert.Equal(t, "4", q.Get("f_E"))
}

func TestBuildURL_PaginationStepsOfTwentyFive(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	assert.Empty(t, queryOf(t, s.buildURL("golang", scraper.SearchOptions{}, 1)).Get("start"))
	assert.Equal(t, "25", queryOf(t, s.buildURL("golang", scraper.SearchOptions{}, 2)).Get("start"))
}

func TestConfig_ConservativeRiskTier(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	cfg := s.base.Config
	assert.Equal(t, 2, cfg.MaxPages)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 40*time.Second, cfg.Timeout)
	assert.GreaterOrEqual(t, cfg.DelayMinMs, 8000)
	assert.Equal(t, 5, cfg.MaxRequestsPerWindow)
}

func TestNew_AppliesSharedSettings(t *testing.T) {
	ua := []string{"test-agent/1.0"}
	s := New(scraper.Settings{Headless: true, UserAgents: ua, CookiesPath: "/var/lib/jobradar/cookies"})

	cfg := s.base.Config
	assert.Equal(t, ua, cfg.UserAgents)
	assert.Equal(t, filepath.Join("/var/lib/jobradar/cookies", "linkedin.json"), cfg.CookiesFile)
}

func TestNew_DefaultCookiesPath(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	assert.Equal(t, filepath.Join(".cookies", "linkedin.json"), s.base.Config.CookiesFile)
}
