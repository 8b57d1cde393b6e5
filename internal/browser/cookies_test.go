package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkedin.json")
	raw := `[
		{"name": "li_at", "value": "secret", "domain": ".linkedin.com", "path": "/", "expires": 1790000000, "httpOnly": true, "secure": true, "sameSite": "None"},
		{"name": "lang", "value": "en", "domain": ".linkedin.com", "path": "/", "expires": 0, "sameSite": "Lax"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	auth := cookies[0]
	assert.Equal(t, "li_at", auth.Name)
	assert.Equal(t, "secret", auth.Value)
	assert.Equal(t, ".linkedin.com", *auth.Domain)
	assert.True(t, *auth.HttpOnly)
	assert.True(t, *auth.Secure)
	assert.Equal(t, playwright.SameSiteAttributeNone, auth.SameSite)

	// zero expiry means session cookie, left unset
	assert.Nil(t, cookies[1].Expires)
	assert.Equal(t, playwright.SameSiteAttributeLax, cookies[1].SameSite)
}

func TestLoadCookies_MissingFile(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadCookies_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadCookies(path)
	assert.Error(t, err)
}
