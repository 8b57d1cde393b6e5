package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobradar/internal/scraper"
)

func TestKnownCoversAllBuilders(t *testing.T) {
	known := Known()
	assert.ElementsMatch(t,
		[]string{"indeed", "linkedin", "remoteok", "stackoverflow", "glassdoor", "ziprecruiter"},
		known,
	)
}

func TestNewReturnsAdapterWithMatchingName(t *testing.T) {
	settings := scraper.Settings{Headless: true}
	for _, name := range Known() {
		adapter, ok := New(name, settings)
		require.True(t, ok, "builder for %q", name)
		assert.Equal(t, name, adapter.Name())
		adapter.Close()
	}
}

func TestNewUnknownSource(t *testing.T) {
	_, ok := New("jobbank", scraper.Settings{Headless: true})
	assert.False(t, ok)
}
