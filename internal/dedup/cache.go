package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type seenEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// SeenCache remembers which job ids have already been reported across runs,
// so the notifier only pushes new openings. Entries expire after 30 days.
type SeenCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewSeenCache creates or loads the cache under cacheDir.
func NewSeenCache(cacheDir string) *SeenCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &SeenCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// IsSeen checks whether a job id has already been reported.
func (c *SeenCache) IsSeen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[id]
	return exists
}

// MarkSeen records ids and persists the cache when anything changed.
func (c *SeenCache) MarkSeen(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, id := range ids {
		if _, exists := c.seen[id]; !exists {
			c.seen[id] = now
			changed = true
		}
	}

	if changed {
		c.save()
	}
}

func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.ID] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

func (c *SeenCache) save() {
	entries := make([]seenEntry, 0, len(c.seen))
	for id, ts := range c.seen {
		entries = append(entries, seenEntry{ID: id, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
