package repository

import (
	"context"
	"errors"
	"strings"

	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// searchVectorExpr is the weighted document used for full-text search:
// title carries the highest weight, then description, then source.
const searchVectorExpr = `
	setweight(to_tsvector('english', coalesce(title, '')), 'A') ||
	setweight(to_tsvector('english', coalesce(description, '')), 'B') ||
	setweight(to_tsvector('english', coalesce(source, '')), 'C')`

// errAlreadyExists classifies the pre-insert existence check inside
// CreateUnique; it never leaves this package.
var errAlreadyExists = errors.New("article already exists")

// MetalNewsRepository is the deduplicating store for news articles plus
// the read side layered over it.
type MetalNewsRepository interface {
	CreateUnique(ctx context.Context, articles []entity.MetalNews) (inserted, skipped int, err error)
	LatestNews(ctx context.Context, limit int) ([]entity.MetalNews, error)
	FindBySource(ctx context.Context, source string) ([]entity.MetalNews, error)
	SearchNews(ctx context.Context, query string) ([]entity.MetalNews, error)
	ReindexAll(ctx context.Context) (int64, error)
}

type metalNewsRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewMetalNewsRepository creates a new MetalNewsRepository.
func NewMetalNewsRepository(db *gorm.DB, log *logger.Logger) MetalNewsRepository {
	return &metalNewsRepository{db: db, log: log}
}

// CreateUnique persists the candidates that are not already present,
// keyed by url. Each candidate runs in its own transaction: an existence
// check, the insert, and the search-vector refresh commit together.
//
// The check-then-insert pair is not atomic against a concurrent inserter,
// so a unique violation raised at insert time is expected and counted as
// skipped rather than surfaced. Any other storage error drops that one
// candidate and the loop continues.
func (r *metalNewsRepository) CreateUnique(ctx context.Context, articles []entity.MetalNews) (int, int, error) {
	var inserted, skipped int

	for i := range articles {
		article := &articles[i]

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&entity.MetalNews{}).
				Where("url = ?", article.URL).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errAlreadyExists
			}

			if err := tx.Create(article).Error; err != nil {
				return err
			}

			return r.refreshSearchVector(tx, article.ID)
		})

		switch {
		case err == nil:
			inserted++
		case errors.Is(err, errAlreadyExists):
			skipped++
		case isUniqueViolation(err):
			// Lost the race against a concurrent fetch run.
			r.log.Warn("Skipping article due to unique violation",
				logger.StringField("url", article.URL), logger.ErrorField(err))
			skipped++
		default:
			r.log.Error("Failed to store article",
				logger.StringField("title", article.Title),
				logger.StringField("url", article.URL),
				logger.ErrorField(err))
		}
	}

	return inserted, skipped, nil
}

// refreshSearchVector recomputes the stored search document for one row.
// The statement writes only the vector column, so it cannot feed back into
// itself.
func (r *metalNewsRepository) refreshSearchVector(tx *gorm.DB, id uuid.UUID) error {
	return tx.Exec(
		"UPDATE metal_news SET search_vector = "+searchVectorExpr+" WHERE id = ?", id,
	).Error
}

// ReindexAll rebuilds the search vector for every article, for out-of-band
// reindexing.
func (r *metalNewsRepository) ReindexAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE metal_news SET search_vector = " + searchVectorExpr + " WHERE deleted_at IS NULL",
	)
	return result.RowsAffected, result.Error
}

// LatestNews returns the most recent articles by publish time.
func (r *metalNewsRepository) LatestNews(ctx context.Context, limit int) ([]entity.MetalNews, error) {
	var news []entity.MetalNews
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&news).Error
	return news, err
}

// FindBySource returns articles from one source, matched case-insensitively.
func (r *metalNewsRepository) FindBySource(ctx context.Context, source string) ([]entity.MetalNews, error) {
	var news []entity.MetalNews
	err := r.db.WithContext(ctx).
		Where("LOWER(source) = LOWER(?)", source).
		Order("published_at DESC").
		Find(&news).Error
	return news, err
}

// SearchNews ranks articles against the stored search vector. Ties break
// by publish time descending.
func (r *metalNewsRepository) SearchNews(ctx context.Context, query string) ([]entity.MetalNews, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.MetalNews{}, nil
	}

	var news []entity.MetalNews
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, title, description, url, source, published_at, created_at, updated_at,
			ts_rank(search_vector, plainto_tsquery('english', @q)) AS rank
		FROM metal_news
		WHERE deleted_at IS NULL
			AND search_vector @@ plainto_tsquery('english', @q)
		ORDER BY rank DESC, published_at DESC`,
		map[string]interface{}{"q": query},
	).Scan(&news).Error
	return news, err
}
