package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-jobradar/internal/config"
	"go-jobradar/internal/dedup"
	"go-jobradar/internal/location"
	"go-jobradar/internal/orchestrator"
	"go-jobradar/internal/scraper"
	"go-jobradar/internal/sources"
	"go-jobradar/internal/telegram"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %v, Location: %q", cfg.Keywords, cfg.Location)

	//setup context with timeout = 15 mins
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	log.Println("🚀 Starting JobRadar scrape run...")

	//location store is optional; without it the selector uses its static table
	var store *location.Store
	if cfg.DatabaseURL != "" {
		var err error
		store, err = location.ConnectStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Could not connect location store: %v. Using static fallback table.", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	selector := location.NewSelector(storeOrNil(store))
	if store != nil {
		store.OnWrite(selector.Invalidate)
	}

	settings := scraper.Settings{
		Headless:    cfg.IsHeadless(),
		UserAgents:  cfg.UserAgents,
		CookiesPath: cfg.CookiesPath,
	}
	orch := orchestrator.New(selector, func(name string) (scraper.Scraper, bool) {
		return sources.New(name, settings)
	})

	//run one search per configured keyword set
	query := strings.Join(cfg.Keywords, " ")
	opts := orchestrator.Options{
		Sources:             cfg.Sources,
		MaxResultsPerSource: cfg.MaxResultsPerSource,
	}
	if cfg.Sequential {
		parallel := false
		opts.Parallel = &parallel
	}

	resp, err := orch.SearchJobs(ctx, orchestrator.SearchFilters{
		Keywords:        query,
		Location:        cfg.Location,
		Remote:          cfg.Remote,
		JobType:         cfg.JobType,
		ExperienceLevel: cfg.ExperienceLevel,
	}, opts)
	if err != nil {
		log.Fatalf("❌ Search failed: %v", err)
	}

	log.Printf("📦 Run %s: %d unique jobs from %d postings across %v (%.1f%% duplicates) in %dms",
		resp.RunID, resp.Total, resp.Stats.TotalInput, resp.SourcesUsed, resp.Stats.DuplicateRate, resp.ScrapeDurationMs)

	//filter out jobs already reported in previous runs
	seenCache := dedup.NewSeenCache(cfg.CachePath)
	var newJobs []dedup.NormalizedJob
	for _, job := range resp.Jobs {
		if !seenCache.IsSeen(job.ID) {
			newJobs = append(newJobs, job)
		}
	}
	log.Printf("🔍 %d of %d unique jobs are new since the last run", len(newJobs), resp.Total)

	var newIDs []string
	for _, job := range newJobs {
		newIDs = append(newIDs, job.ID)
	}
	seenCache.MarkSeen(newIDs)

	//push new jobs to telegram when configured
	if cfg.TelegramToken != "" && len(newJobs) > 0 {
		notifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Failed to init Telegram notifier: %v", err)
		} else {
			for _, job := range newJobs {
				if err := notifier.SendJob(ctx, job); err != nil {
					log.Printf("⚠️ Failed to send job to Telegram: %v", err)
				}
			}
			statusMsg := fmt.Sprintf("Found %d new jobs (%d unique total, %d sources).", len(newJobs), resp.Total, len(resp.SourcesUsed))
			if err := notifier.SendStatus(ctx, statusMsg); err != nil {
				log.Printf("⚠️ Failed to send status to Telegram: %v", err)
			}
		}
	}

	//save results
	saveResponse(resp)

	log.Println("🏁 Execution finished.")
}

// storeOrNil avoids handing the selector a typed-nil interface value.
func storeOrNil(store *location.Store) location.ConfigSource {
	if store == nil {
		return nil
	}
	return store
}

func saveResponse(resp *orchestrator.SearchResponse) {
	if resp.Total == 0 {
		log.Println("ℹ️ No jobs to save.")
		return
	}

	//create logs directory if not exists
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	//gen filename: job-search-YYYY-MM-DD.json
	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(logDir, filename)

	//marshal
	data, err := json.MarshalIndent(resp, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal response to JSON: %v", err)
		return
	}

	//write file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write results file: %v", err)
		return
	}

	log.Printf("📁 Results saved to %s", filePath)
}
