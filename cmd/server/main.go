// HTTP front for the scraping orchestrator plus a cron loop that keeps the
// feed warm by re-running the configured default search.

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"go-jobradar/internal/config"
	"go-jobradar/internal/location"
	"go-jobradar/internal/orchestrator"
	"go-jobradar/internal/scraper"
	"go-jobradar/internal/sources"
)

type searchRequest struct {
	Filters orchestrator.SearchFilters `json:"filters"`
	Options orchestrator.Options       `json:"options"`
}

func main() {
	cfg := config.Load()

	ctx := context.Background()

	var store *location.Store
	var selectorSource location.ConfigSource
	if cfg.DatabaseURL != "" {
		var err error
		store, err = location.ConnectStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Could not connect location store: %v. Using static fallback table.", err)
		} else {
			defer store.Close()
			selectorSource = store
		}
	}

	selector := location.NewSelector(selectorSource)
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

	//background scrape loop keeps results flowing without API traffic
	c := cron.New()
	spec := fmt.Sprintf("@every %dh", cfg.ScrapeIntervalHours)
	if _, err := c.AddFunc(spec, func() {
		runScheduledScrape(cfg, orch)
	}); err != nil {
		log.Fatalf("❌ cron.AddFunc: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Printf("⏰ Background scrape scheduled: %s", spec)

	r := gin.Default()

	r.GET("/healthz", func(gc *gin.Context) {
		gc.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "jobradar",
		})
	})

	r.GET("/api/v1/sources", func(gc *gin.Context) {
		gc.JSON(http.StatusOK, gin.H{"sources": sources.Known()})
	})

	r.POST("/api/v1/search", func(gc *gin.Context) {
		var req searchRequest
		if err := gc.ShouldBindJSON(&req); err != nil {
			gc.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Filters.Keywords == "" {
			gc.JSON(http.StatusBadRequest, gin.H{"error": "keywords is required"})
			return
		}

		searchCtx, cancel := context.WithTimeout(gc.Request.Context(), 10*time.Minute)
		defer cancel()

		resp, err := orch.SearchJobs(searchCtx, req.Filters, req.Options)
		if err != nil {
			gc.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		gc.JSON(http.StatusOK, resp)
	})

	log.Printf("🌐 Server listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func runScheduledScrape(cfg *config.Config, orch *orchestrator.Orchestrator) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	log.Println("⏰ Scheduled scrape cycle started")
	for _, keyword := range cfg.Keywords {
		resp, err := orch.SearchJobs(ctx, orchestrator.SearchFilters{
			Keywords: keyword,
			Location: cfg.Location,
			Remote:   cfg.Remote,
			JobType:  cfg.JobType,
		}, orchestrator.Options{MaxResultsPerSource: cfg.MaxResultsPerSource})
		if err != nil {
			log.Printf("⚠️ Scheduled scrape for %q failed: %v", keyword, err)
			continue
		}
		log.Printf("⏰ Scheduled scrape for %q: %d unique jobs from %v", keyword, resp.Total, resp.SourcesUsed)
	}
	log.Println("⏰ Scheduled scrape cycle complete")
}
