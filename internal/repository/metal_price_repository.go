package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MetalPriceRepository stores price fetch batches and serves latest-batch
// reads. Batches are append-only: no cross-batch deduplication exists by
// design, every successful fetch adds a fresh set of rows.
type MetalPriceRepository interface {
	StoreBatch(ctx context.Context, raw []dto.RawMetalPrice) (*dto.PriceFetchResult, error)
	LatestBatch(ctx context.Context, symbols []string) ([]entity.MetalPrice, error)
	LatestBySymbol(ctx context.Context, symbol string) (*entity.MetalPrice, error)
}

type metalPriceRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewMetalPriceRepository creates a new MetalPriceRepository.
func NewMetalPriceRepository(db *gorm.DB, log *logger.Logger) MetalPriceRepository {
	return &metalPriceRepository{db: db, log: log}
}

// StoreBatch transforms the raw payload and inserts the validated rows as
// one transaction sharing a single fetched_at. A transformation failure
// aborts before any row is written; partial batches are never visible.
func (r *metalPriceRepository) StoreBatch(ctx context.Context, raw []dto.RawMetalPrice) (*dto.PriceFetchResult, error) {
	fetchedAt := time.Now().UTC()

	rows, summaries, err := r.buildBatch(raw, fetchedAt)
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&rows).Error
		}); err != nil {
			return nil, fmt.Errorf("failed to store price batch: %w", err)
		}
	}

	r.log.InfoContext(ctx, "Stored metal price batch",
		logger.IntField("inserted", len(rows)),
		logger.Field("fetched_at", fetchedAt))

	return &dto.PriceFetchResult{
		Success:   true,
		Message:   fmt.Sprintf("Fetched and stored %d metal prices", len(rows)),
		Inserted:  len(rows),
		FetchedAt: fetchedAt,
		Prices:    summaries,
	}, nil
}

// buildBatch validates and transforms every payload item before anything
// touches storage. Items without a material identifier are dropped; the
// current price is the last historical point, falling back to the chart
// indicator when the history is empty.
func (r *metalPriceRepository) buildBatch(raw []dto.RawMetalPrice, fetchedAt time.Time) ([]entity.MetalPrice, []dto.PriceSummary, error) {
	rows := make([]entity.MetalPrice, 0, len(raw))
	summaries := make([]dto.PriceSummary, 0, len(raw))

	for _, item := range raw {
		if item.Material == "" {
			r.log.Warn("Skipping price item without material identifier", logger.Field("item", item))
			continue
		}

		latestPrice := item.ChartIndicator
		if len(item.Prices) > 0 {
			latestPrice = item.Prices[len(item.Prices)-1].PriceNormalised
		}

		var lastDate *time.Time
		if item.LastDate != nil && *item.LastDate != 0 {
			t := time.UnixMilli(*item.LastDate).UTC()
			lastDate = &t
		}

		history, err := json.Marshal(item.Prices)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode price history for %s: %w", item.Material, err)
		}

		indicatorOne := decimal.NewFromFloat(item.IndicatorOne)
		indicatorTwo := decimal.NewFromFloat(item.IndicatorTwo)
		indicatorThree := decimal.NewFromFloat(item.IndicatorThree)
		chartIndicator := decimal.NewFromFloat(item.ChartIndicator)

		rows = append(rows, entity.MetalPrice{
			Symbol:         item.Material,
			Name:           item.Material,
			PriceUSD:       decimal.NewFromFloat(latestPrice),
			Unit:           "normalized",
			IndicatorOne:   &indicatorOne,
			IndicatorTwo:   &indicatorTwo,
			IndicatorThree: &indicatorThree,
			ChartIndicator: &chartIndicator,
			LastDate:       lastDate,
			FetchedAt:      fetchedAt,
			PriceHistory:   history,
		})

		summaries = append(summaries, dto.PriceSummary{
			Symbol:            item.Material,
			ChartIndicator:    chartIndicator,
			IndicatorOne:      indicatorOne,
			PriceHistoryCount: len(item.Prices),
		})
	}

	return rows, summaries, nil
}

// LatestBatch returns every row of the most recent batch, optionally
// narrowed to a symbol subset. An empty store yields an empty slice.
func (r *metalPriceRepository) LatestBatch(ctx context.Context, symbols []string) ([]entity.MetalPrice, error) {
	query := r.db.WithContext(ctx).
		Where("fetched_at = (?)", r.latestFetchSubquery()).
		Order("symbol ASC")

	if len(symbols) > 0 {
		query = query.Where("symbol IN ?", symbols)
	}

	var prices []entity.MetalPrice
	if err := query.Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// LatestBySymbol returns the single latest-batch row for one symbol.
func (r *metalPriceRepository) LatestBySymbol(ctx context.Context, symbol string) (*entity.MetalPrice, error) {
	var price entity.MetalPrice
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Where("fetched_at = (?)", r.latestFetchSubquery()).
		First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPriceNotFound
		}
		return nil, err
	}
	return &price, nil
}

func (r *metalPriceRepository) latestFetchSubquery() *gorm.DB {
	return r.db.Model(&entity.MetalPrice{}).Select("MAX(fetched_at)")
}
