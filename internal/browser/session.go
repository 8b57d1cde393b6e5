// Own one browser process per adapter
// Launch lazily, reuse across requests
// Configure pages to resist trivial bot detection

package browser

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// defaultUserAgents is the built-in pool used when an adapter does not bring
// its own. Recent desktop browsers only.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
}

// blockedResourceTypes are aborted at the network layer to cut page weight.
var blockedResourceTypes = map[string]bool{
	"image":      true,
	"font":       true,
	"media":      true,
	"stylesheet": true,
}

// Session owns one Chromium process for one adapter instance. The browser is
// launched on first use and reused for every page until Close. Never share a
// Session across adapters.
type Session struct {
	mu         sync.Mutex
	pw         *playwright.Playwright
	browser    playwright.Browser
	headless   bool
	userAgents []string

	cookieFile   string
	cookieJar    []playwright.OptionalCookie
	cookieLoaded bool
}

func NewSession(headless bool, userAgents []string) *Session {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &Session{
		headless:   headless,
		userAgents: userAgents,
	}
}

func (s *Session) ensureBrowser() (playwright.Browser, error) {
	if s.browser != nil {
		return s.browser, nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	s.pw = pw
	s.browser = browser
	return browser, nil
}

// NewPage returns a page in a fresh context with a random user agent, a
// realistic viewport, standard Accept headers and heavy-resource blocking.
func (s *Session) NewPage() (playwright.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	browser, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}

	ua := s.userAgents[rand.Intn(len(s.userAgents))]
	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(ua),
		Viewport:  &playwright.Size{Width: 1366, Height: 768},
		ExtraHttpHeaders: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Accept-Encoding": "gzip, deflate, br",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if jar := s.loadCookieJar(); len(jar) > 0 {
		if err := browserCtx.AddCookies(jar); err != nil {
			log.Printf("⚠️ Could not inject cookies: %v", err)
		}
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	// tie the context lifetime to its page so repeated NewPage calls do not
	// accumulate live contexts until Close
	page.OnClose(func(playwright.Page) {
		browserCtx.Close()
	})

	// abort images/fonts/media/stylesheets to reduce load time and bandwidth
	if err := page.Route("**/*", func(route playwright.Route) {
		if blockedResourceTypes[route.Request().ResourceType()] {
			route.Abort()
			return
		}
		route.Continue()
	}); err != nil {
		log.Printf("⚠️ Could not install request interception: %v", err)
	}

	return page, nil
}

// UseCookieFile points the session at a JSON cookie jar. The jar is loaded on
// first use and injected into every context the session creates, so boards
// that gate results behind a signed-in session stay authenticated across
// retries. Call before the first NewPage.
func (s *Session) UseCookieFile(path string) {
	s.mu.Lock()
	s.cookieFile = path
	s.mu.Unlock()
}

// loadCookieJar parses the cookie file once and caches the result. A missing
// file just means anonymous scraping; a malformed one is logged and skipped.
// Caller holds mu.
func (s *Session) loadCookieJar() []playwright.OptionalCookie {
	if s.cookieLoaded || s.cookieFile == "" {
		return s.cookieJar
	}
	s.cookieLoaded = true

	jar, err := LoadCookies(s.cookieFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Could not load cookies from %s: %v", s.cookieFile, err)
		}
		return nil
	}

	s.cookieJar = jar
	log.Printf("🍪 Loaded %d cookies from %s", len(jar), s.cookieFile)
	return jar
}

// Close tears down the browser and the playwright driver. No-op when nothing
// was launched; close failures are logged, never propagated.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser: %v", err)
		}
		s.browser = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			log.Printf("⚠️ Failed to stop playwright driver: %v", err)
		}
		s.pw = nil
	}
}
