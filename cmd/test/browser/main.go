// Manual smoke test for the stealth session manager. Launches a browser,
// opens a configured page and verifies resource blocking took effect.
package main

import (
	"fmt"
	"log"

	"go-jobradar/internal/browser"
)

func main() {
	fmt.Println("🌐 Testing stealth session...")

	session := browser.NewSession(true, nil)
	defer session.Close()

	page, err := session.NewPage()
	if err != nil {
		log.Fatalf("Failed to create page: %v", err)
	}

	fmt.Println("✅ Page created with stealth profile")

	if _, err := page.Goto("https://example.com"); err != nil {
		log.Fatalf("Failed to navigate: %v", err)
	}

	title, _ := page.Title()
	fmt.Printf("✅ Page title: %s\n", title)

	ua, err := page.Evaluate("navigator.userAgent")
	if err == nil {
		fmt.Printf("✅ User agent: %v\n", ua)
	}

	//Close twice on purpose: the second close must be a no-op
	session.Close()
	session.Close()
	fmt.Println("✨ Test complete!")
}
