// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Search criteria
	Keywords            []string `yaml:"keywords"`
	Location            string   `yaml:"location"`
	Remote              bool     `yaml:"remote"`
	JobType             string   `yaml:"job_type"`
	ExperienceLevel     string   `yaml:"experience_level"`
	Sources             []string `yaml:"sources"`
	Sequential          bool     `yaml:"sequential"`
	MaxResultsPerSource int      `yaml:"max_results_per_source"`

	//Browser
	Headless   *bool    `yaml:"headless"`
	UserAgents []string `yaml:"user_agents"`

	//Integrations (all optional)
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	//Server
	Port                string `yaml:"port" env:"PORT"`
	ScrapeIntervalHours int    `yaml:"scrape_interval_hours" env:"SCRAPE_INTERVAL_HOURS"`

	//Paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if hours := os.Getenv("SCRAPE_INTERVAL_HOURS"); hours != "" {
		v, err := strconv.Atoi(hours)
		if err != nil || v < 1 {
			log.Fatalf("SCRAPE_INTERVAL_HOURS must be a positive integer, got %q", hours)
		}
		cfg.ScrapeIntervalHours = v
	}

	//Set default values if not set
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = []string{"software engineer"}
	}
	if cfg.MaxResultsPerSource <= 0 {
		cfg.MaxResultsPerSource = 25
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ScrapeIntervalHours <= 0 {
		cfg.ScrapeIntervalHours = 6
	}
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	//Validate telegram pairing: token without chat id is a config mistake
	if (cfg.TelegramToken == "") != (cfg.TelegramChatID == 0) {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	return cfg
}

// IsHeadless returns the headless flag, defaulting to true.
func (c *Config) IsHeadless() bool {
	if c.Headless == nil {
		return true
	}
	return *c.Headless
}
