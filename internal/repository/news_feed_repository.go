package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-metal-scryper/internal/config"
	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/pkg/logger"
	"golang-metal-scryper/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// NewsFeedRepository fetches candidate articles from the Google News RSS
// search feed for a single search term.
type NewsFeedRepository interface {
	FetchArticles(ctx context.Context, searchTerm string) ([]entity.MetalNews, error)
}

type newsFeedRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	parser         *gofeed.Parser
	requestLimiter *rate.Limiter
	feedCache      *cache.Cache
}

// NewNewsFeedRepository creates a new NewsFeedRepository.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	maxPerMinute := cfg.News.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	timeout := cfg.News.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &newsFeedRepository{
		cfg:            cfg,
		log:            log,
		client:         &http.Client{Timeout: timeout},
		parser:         gofeed.NewParser(),
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1),
		feedCache:      cache.New(cfg.News.FeedCacheTTL, 2*cfg.News.FeedCacheTTL),
	}
}

// FetchArticles fetches and leniently parses the feed for one search term.
// A transport failure returns an ErrFeedFetch-wrapped error; a malformed
// feed body yields zero results without failing the term.
func (r *newsFeedRepository) FetchArticles(ctx context.Context, searchTerm string) ([]entity.MetalNews, error) {
	feedURL := r.buildFeedURL(searchTerm)

	if r.cfg.News.FeedCacheTTL > 0 {
		if cached, found := r.feedCache.Get(feedURL); found {
			r.log.DebugContext(ctx, "Serving RSS feed from cache", logger.StringField("url", feedURL))
			return append([]entity.MetalNews(nil), cached.([]entity.MetalNews)...), nil
		}
	}

	body, err := r.fetchFeedBody(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := r.parser.ParseString(body)
	if err != nil {
		r.log.Warn("Failed to parse RSS feed body, treating as empty",
			logger.ErrorField(err), logger.StringField("search_term", searchTerm))
		return nil, nil
	}

	articles := r.collectEntries(ctx, feed, searchTerm)

	if r.cfg.News.FeedCacheTTL > 0 {
		r.feedCache.Set(feedURL, articles, cache.DefaultExpiration)
	}

	return articles, nil
}

func (r *newsFeedRepository) buildFeedURL(searchTerm string) string {
	params := url.Values{}
	params.Set("q", searchTerm)
	params.Set("hl", r.cfg.News.RSSParams.HL)
	params.Set("gl", r.cfg.News.RSSParams.GL)
	params.Set("ceid", r.cfg.News.RSSParams.CEID)
	return fmt.Sprintf("%s?%s", r.cfg.News.RSSBaseURL, params.Encode())
}

func (r *newsFeedRepository) fetchFeedBody(ctx context.Context, feedURL string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrFeedFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrFeedFetch, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error("RSS feed request failed", logger.ErrorField(err), logger.StringField("url", feedURL))
		return "", fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.log.Error("RSS feed request returned non-2xx status",
			logger.IntField("status", resp.StatusCode), logger.StringField("url", feedURL))
		return "", fmt.Errorf("%w: status code %d", ErrFeedFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrFeedFetch, err)
	}

	return string(body), nil
}

func (r *newsFeedRepository) collectEntries(ctx context.Context, feed *gofeed.Feed, searchTerm string) []entity.MetalNews {
	limit := r.cfg.News.FetchLimit
	if limit <= 0 {
		limit = 50
	}

	articles := make([]entity.MetalNews, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		article, ok := r.entryToArticle(item)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	r.log.InfoContext(ctx, "Fetched articles from RSS feed",
		logger.IntField("count", len(articles)),
		logger.StringField("search_term", searchTerm))

	return articles
}

// entryToArticle converts one feed entry, tolerating missing fields. A
// panic raised by a single malformed entry is recovered so the rest of the
// batch proceeds.
func (r *newsFeedRepository) entryToArticle(item *gofeed.Item) (article entity.MetalNews, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("Skipping RSS entry after unexpected parsing error", logger.Field("panic", rec))
			ok = false
		}
	}()

	if item == nil || item.Link == "" {
		return entity.MetalNews{}, false
	}

	publishedAt := time.Now().UTC()
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed.UTC()
	}

	title := item.Title
	if title == "" {
		title = "No title"
	}

	source := "Google News"
	if parsed, err := url.Parse(item.Link); err == nil && parsed.Hostname() != "" {
		source = parsed.Hostname()
	}

	return entity.MetalNews{
		Title:       utils.CleanToValidUTF8(title),
		Description: utils.CleanToValidUTF8(stripHTML(item.Description)),
		URL:         item.Link,
		Source:      source,
		PublishedAt: publishedAt,
	}, true
}

// stripHTML reduces a feed summary to plain text; Google News descriptions
// carry anchor markup.
func stripHTML(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
