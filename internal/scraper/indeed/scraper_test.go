package indeed

import (
	"net/url"
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

func TestBuildURL_BasicQuery(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	raw := s.buildURL("golang developer", scraper.SearchOptions{Location: "Toronto, ON"}, 1)

	q := queryOf(t, raw)
	assert.Equal(t, "golang developer", q.Get("q"))
	assert.Equal(t, "Toronto, ON", q.Get("l"))
	assert.Empty(t, q.Get("start"), "first page carries no offset")
}

func TestBuildURL_RemoteOverridesLocation(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	raw := s.buildURL("golang", scraper.SearchOptions{Location: "Toronto", Remote: true}, 1)

	assert.Equal(t, "Remote", queryOf(t, raw).Get("l"))
}

func TestBuildURL_JobTypeMapped(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	raw := s.buildURL("golang", scraper.SearchOptions{JobType: "Full-Time"}, 1)

	assert.Equal(t, "fulltime", queryOf(t, raw).Get("jt"))
}

func TestBuildURL_PaginationStepsOfTen(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	assert.Equal(t, "10", queryOf(t, s.buildURL("golang", scraper.SearchOptions{}, 2)).Get("start"))
	assert.Equal(t, "40", queryOf(t, s.buildURL("golang", scraper.SearchOptions{}, 5)).Get("start"))
}

func TestConfig_StandardRiskTier(t *testing.T) {
	s := New(scraper.Settings{Headless: true})

	cfg := s.base.Config
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestNew_AppliesSharedSettings(t *testing.T) {
	ua := []string{"test-agent/1.0"}
	s := New(scraper.Settings{Headless: true, UserAgents: ua})

	assert.Equal(t, ua, s.base.Config.UserAgents)
	assert.True(t, s.base.Config.Headless)
}
