package repository

import (
	"context"
	"fmt"

	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/pkg/logger"

	"gorm.io/gorm"
)

// KeywordRepository manages keywords and typed article tags. Tagging is
// downstream curation; the ingestion pipeline never writes here.
type KeywordRepository interface {
	Create(ctx context.Context, keyword *entity.Keyword) error
	List(ctx context.Context) ([]entity.Keyword, error)
	TagArticle(ctx context.Context, link *entity.NewsKeyword) error
}

type keywordRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewKeywordRepository creates a new KeywordRepository.
func NewKeywordRepository(db *gorm.DB, log *logger.Logger) KeywordRepository {
	return &keywordRepository{db: db, log: log}
}

// Create persists a keyword; the slug derives from the name when absent.
// A name or slug collision surfaces as ErrDuplicate.
func (r *keywordRepository) Create(ctx context.Context, keyword *entity.Keyword) error {
	if err := r.db.WithContext(ctx).Create(keyword).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: keyword %q", ErrDuplicate, keyword.Name)
		}
		return err
	}
	return nil
}

// List returns all keywords ordered by name.
func (r *keywordRepository) List(ctx context.Context) ([]entity.Keyword, error) {
	var keywords []entity.Keyword
	err := r.db.WithContext(ctx).Order("name ASC").Find(&keywords).Error
	return keywords, err
}

// TagArticle links an article to a keyword under a type. The same triple
// twice surfaces as ErrDuplicate.
func (r *keywordRepository) TagArticle(ctx context.Context, link *entity.NewsKeyword) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: article already tagged with this keyword and type", ErrDuplicate)
		}
		return err
	}
	return nil
}
