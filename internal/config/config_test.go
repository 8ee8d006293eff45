package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
app:
  name: "metal-market-service"
database:
  host: "db.internal"
  port: 5433
  name: "metal_market"
news:
  rss_base_url: "https://news.google.com/rss/search"
  rss_params:
    hl: "en-US"
    gl: "US"
    ceid: "US:en"
  search_terms:
    - "copper prices"
    - "steel industry news"
  fetch_limit: 50
  request_timeout: "30s"
prices:
  supported_metals:
    - "Tense"
    - "Zorba"
  latest_cache_ttl: "5m"
scheduler:
  news_cron: "0 * * * *"
  max_retries: 3
  retry_backoff: "5m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "metal-market-service", cfg.App.Name)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)

	require.Equal(t, "https://news.google.com/rss/search", cfg.News.RSSBaseURL)
	require.Equal(t, "US:en", cfg.News.RSSParams.CEID)
	require.Equal(t, []string{"copper prices", "steel industry news"}, cfg.News.SearchTerms)
	require.Equal(t, 50, cfg.News.FetchLimit)
	require.Equal(t, 30*time.Second, cfg.News.RequestTimeout)

	require.Equal(t, []string{"Tense", "Zorba"}, cfg.Prices.SupportedMetals)
	require.Equal(t, 5*time.Minute, cfg.Prices.LatestCacheTTL)

	require.Equal(t, "0 * * * *", cfg.Scheduler.NewsCron)
	require.Equal(t, 3, cfg.Scheduler.MaxRetries)
	require.Equal(t, 5*time.Minute, cfg.Scheduler.RetryBackoff)
}
