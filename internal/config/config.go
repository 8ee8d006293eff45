package config

import (
	"time"

	"golang-metal-scryper/pkg/config"
)

// RSSParams holds the fixed locale parameters appended to every feed query.
type RSSParams struct {
	HL   string `mapstructure:"hl"`
	GL   string `mapstructure:"gl"`
	CEID string `mapstructure:"ceid"`
}

// News holds the news ingestion configuration.
type News struct {
	RSSBaseURL          string        `mapstructure:"rss_base_url"`
	RSSParams           RSSParams     `mapstructure:"rss_params"`
	SearchTerms         []string      `mapstructure:"search_terms"`
	FetchLimit          int           `mapstructure:"fetch_limit"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	FeedCacheTTL        time.Duration `mapstructure:"feed_cache_ttl"`
}

// Prices holds the price ingestion configuration.
type Prices struct {
	APIURL              string        `mapstructure:"api_url"`
	APITimeout          time.Duration `mapstructure:"api_timeout"`
	SupportedMetals     []string      `mapstructure:"supported_metals"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	LatestCacheTTL      time.Duration `mapstructure:"latest_cache_ttl"`
}

// Scheduler holds the background fetch scheduling configuration.
type Scheduler struct {
	NewsCron     string        `mapstructure:"news_cron"`
	PriceCron    string        `mapstructure:"price_cron"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Cache holds read-API caching configuration.
type Cache struct {
	ResponseTTL time.Duration `mapstructure:"response_ttl"`
}

// Config holds the full configuration for the metal market service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	News      News            `mapstructure:"news"`
	Prices    Prices          `mapstructure:"prices"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
	Telegram  Telegram        `mapstructure:"telegram"`
	Cache     Cache           `mapstructure:"cache"`
}

// Load loads the service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
