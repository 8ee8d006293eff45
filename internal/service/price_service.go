package service

import (
	"context"
	"strings"
	"time"

	"golang-metal-scryper/internal/config"
	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/internal/repository"
	"golang-metal-scryper/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// PriceService coordinates price fetching and serves the price read side.
type PriceService interface {
	FetchAndStorePrices(ctx context.Context, metals []string) (*dto.PriceFetchResult, error)
	LatestPrices(ctx context.Context, symbols []string) ([]entity.MetalPrice, error)
	PriceBySymbol(ctx context.Context, symbol string) (*entity.MetalPrice, error)
}

type priceService struct {
	cfg         *config.Config
	log         *logger.Logger
	apiRepo     repository.PriceAPIRepository
	priceRepo   repository.MetalPriceRepository
	latestCache *cache.Cache
}

// NewPriceService creates a new PriceService.
func NewPriceService(cfg *config.Config, log *logger.Logger, apiRepo repository.PriceAPIRepository, priceRepo repository.MetalPriceRepository) PriceService {
	ttl := cfg.Prices.LatestCacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &priceService{
		cfg:         cfg,
		log:         log,
		apiRepo:     apiRepo,
		priceRepo:   priceRepo,
		latestCache: cache.New(ttl, 2*ttl),
	}
}

// FetchAndStorePrices fetches a fresh batch for the requested symbols,
// defaulting to the full supported-metal list. An external API failure
// propagates untouched; retry policy, if any, belongs to the scheduler.
func (s *priceService) FetchAndStorePrices(ctx context.Context, metals []string) (*dto.PriceFetchResult, error) {
	if len(metals) == 0 {
		metals = s.cfg.Prices.SupportedMetals
	}

	s.log.InfoContext(ctx, "Fetching metal prices", logger.IntField("metals", len(metals)))

	raw, err := s.apiRepo.FetchPrices(ctx, metals)
	if err != nil {
		return nil, err
	}

	result, err := s.priceRepo.StoreBatch(ctx, raw)
	if err != nil {
		return nil, err
	}

	// A new batch supersedes anything cached.
	s.latestCache.Flush()

	return result, nil
}

// LatestPrices returns the most recent batch, optionally narrowed to a
// symbol subset, through a short-lived in-memory cache.
func (s *priceService) LatestPrices(ctx context.Context, symbols []string) ([]entity.MetalPrice, error) {
	cacheKey := "latest:" + strings.Join(symbols, ",")
	if cached, found := s.latestCache.Get(cacheKey); found {
		return cached.([]entity.MetalPrice), nil
	}

	prices, err := s.priceRepo.LatestBatch(ctx, symbols)
	if err != nil {
		return nil, err
	}

	s.latestCache.Set(cacheKey, prices, cache.DefaultExpiration)
	return prices, nil
}

// PriceBySymbol returns one symbol's row within the latest batch;
// repository.ErrPriceNotFound when the symbol is absent.
func (s *priceService) PriceBySymbol(ctx context.Context, symbol string) (*entity.MetalPrice, error) {
	return s.priceRepo.LatestBySymbol(ctx, symbol)
}
