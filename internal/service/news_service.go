package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-metal-scryper/internal/config"
	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/internal/repository"
	"golang-metal-scryper/pkg/logger"
	"golang-metal-scryper/pkg/redis"
	"golang-metal-scryper/pkg/utils"
)

// NewsService coordinates news fetching and serves the news read side.
type NewsService interface {
	FetchAndStoreNews(ctx context.Context) (*dto.NewsFetchResult, error)
	LatestNews(ctx context.Context, limit int) ([]entity.MetalNews, error)
	NewsBySource(ctx context.Context, source string) ([]entity.MetalNews, error)
	SearchNews(ctx context.Context, query string) ([]entity.MetalNews, error)
	ReindexAll(ctx context.Context) (*dto.ReindexResult, error)
}

type newsService struct {
	cfg         *config.Config
	log         *logger.Logger
	feedRepo    repository.NewsFeedRepository
	newsRepo    repository.MetalNewsRepository
	redisClient *redis.Client
}

// NewNewsService creates a new NewsService. The redis client may be nil;
// read caching is then disabled.
func NewNewsService(cfg *config.Config, log *logger.Logger, feedRepo repository.NewsFeedRepository, newsRepo repository.MetalNewsRepository, redisClient *redis.Client) NewsService {
	return &newsService{
		cfg:         cfg,
		log:         log,
		feedRepo:    feedRepo,
		newsRepo:    newsRepo,
		redisClient: redisClient,
	}
}

// FetchAndStoreNews polls every configured search term, merges the results
// by url and persists the candidates not seen before. One failing term
// never fails the run; the run fails only when every term failed with a
// transport error, which is the retryable condition for the scheduled path.
func (s *newsService) FetchAndStoreNews(ctx context.Context) (*dto.NewsFetchResult, error) {
	terms := s.cfg.News.SearchTerms
	s.log.InfoContext(ctx, "Fetching news", logger.IntField("search_terms", len(terms)))

	var all []entity.MetalNews
	failedTerms := 0

	for _, term := range terms {
		if !utils.ShouldContinue(ctx) {
			break
		}

		articles, err := s.feedRepo.FetchArticles(ctx, term)
		if err != nil {
			s.log.Error("Error fetching RSS feed for term",
				logger.StringField("search_term", term), logger.ErrorField(err))
			failedTerms++
			continue
		}
		all = append(all, articles...)
	}

	if len(terms) > 0 && failedTerms == len(terms) {
		return nil, fmt.Errorf("%w: all %d search terms failed", repository.ErrFeedFetch, len(terms))
	}

	unique := mergeByURL(all)
	if len(unique) == 0 {
		s.log.Warn("No articles fetched from any RSS feed")
		return &dto.NewsFetchResult{
			Success: true,
			Message: "No new articles found",
		}, nil
	}

	s.log.InfoContext(ctx, "Fetched unique articles", logger.IntField("count", len(unique)))

	inserted, skipped, err := s.newsRepo.CreateUnique(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to store articles: %w", err)
	}

	if inserted > 0 {
		s.invalidateLatestCache(ctx)
	}

	return &dto.NewsFetchResult{
		Success:      true,
		Message:      fmt.Sprintf("Fetched and stored %d new articles", inserted),
		Inserted:     inserted,
		Skipped:      skipped,
		TotalFetched: len(unique),
	}, nil
}

// mergeByURL deduplicates candidates across search terms. Last seen wins;
// articles are immutable after insert so the choice is arbitrary.
func mergeByURL(articles []entity.MetalNews) []entity.MetalNews {
	unique := make([]entity.MetalNews, 0, len(articles))
	position := make(map[string]int, len(articles))

	for _, article := range articles {
		if idx, seen := position[article.URL]; seen {
			unique[idx] = article
			continue
		}
		position[article.URL] = len(unique)
		unique = append(unique, article)
	}

	return unique
}

// LatestNews returns the most recent articles, read through a short-lived
// redis cache when one is configured.
func (s *newsService) LatestNews(ctx context.Context, limit int) ([]entity.MetalNews, error) {
	if limit <= 0 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("metal_news:latest:%d", limit)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	news, err := s.newsRepo.LatestNews(ctx, limit)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, news)
	return news, nil
}

// NewsBySource returns articles from one source, case-insensitively.
func (s *newsService) NewsBySource(ctx context.Context, source string) ([]entity.MetalNews, error) {
	return s.newsRepo.FindBySource(ctx, source)
}

// SearchNews runs ranked full-text search. An empty or whitespace-only
// query yields an empty result set, never all rows.
func (s *newsService) SearchNews(ctx context.Context, query string) ([]entity.MetalNews, error) {
	return s.newsRepo.SearchNews(ctx, query)
}

// ReindexAll rebuilds every article's search vector.
func (s *newsService) ReindexAll(ctx context.Context) (*dto.ReindexResult, error) {
	updated, err := s.newsRepo.ReindexAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild search vectors: %w", err)
	}
	return &dto.ReindexResult{
		Success: true,
		Message: fmt.Sprintf("Updated search vectors for %d articles", updated),
		Updated: updated,
	}, nil
}

func (s *newsService) cacheGet(ctx context.Context, key string) ([]entity.MetalNews, bool) {
	if s.redisClient == nil || s.cfg.Cache.ResponseTTL <= 0 {
		return nil, false
	}
	payload, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var news []entity.MetalNews
	if err := json.Unmarshal(payload, &news); err != nil {
		return nil, false
	}
	return news, true
}

func (s *newsService) cacheSet(ctx context.Context, key string, news []entity.MetalNews) {
	if s.redisClient == nil || s.cfg.Cache.ResponseTTL <= 0 {
		return
	}
	payload, err := json.Marshal(news)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, payload, s.cfg.Cache.ResponseTTL).Err(); err != nil {
		s.log.Warn("Failed to cache latest news", logger.ErrorField(err))
	}
}

func (s *newsService) invalidateLatestCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	keys, err := s.redisClient.Keys(ctx, "metal_news:latest:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("Failed to invalidate news cache", logger.ErrorField(err))
	}
}
