package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// KeywordType classifies how a keyword relates to an article.
type KeywordType string

const (
	KeywordTypeTopic        KeywordType = "topic"
	KeywordTypeCountry      KeywordType = "country"
	KeywordTypeRelatedMetal KeywordType = "related_metal"
	KeywordTypeIndustry     KeywordType = "industry"
	KeywordTypeCompany      KeywordType = "company"
	KeywordTypeRegion       KeywordType = "region"
	KeywordTypeOther        KeywordType = "other"
)

// Valid reports whether t is one of the known keyword types.
func (t KeywordType) Valid() bool {
	switch t {
	case KeywordTypeTopic, KeywordTypeCountry, KeywordTypeRelatedMetal,
		KeywordTypeIndustry, KeywordTypeCompany, KeywordTypeRegion, KeywordTypeOther:
		return true
	}
	return false
}

// Keyword is a reusable tag shared across news articles.
type Keyword struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Keyword model.
func (Keyword) TableName() string {
	return "keywords"
}

// BeforeCreate assigns the keyword identity.
func (k *Keyword) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// BeforeSave derives the slug from the name when absent.
func (k *Keyword) BeforeSave(tx *gorm.DB) error {
	if k.Slug == "" {
		k.Slug = slug.Make(k.Name)
	}
	return nil
}

// NewsKeyword links an article to a keyword under a given type. The same
// keyword may tag the same article under distinct types, never twice under
// the same one.
type NewsKeyword struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	NewsID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_news_keyword_type" json:"news_id"`
	KeywordID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_news_keyword_type" json:"keyword_id"`
	KeywordType KeywordType `gorm:"size:20;not null;default:other;index;uniqueIndex:idx_news_keyword_type" json:"keyword_type"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`

	Keyword *Keyword `gorm:"foreignKey:KeywordID" json:"keyword,omitempty"`
}

// TableName specifies the table name for the NewsKeyword model.
func (NewsKeyword) TableName() string {
	return "news_keywords"
}

// BeforeCreate assigns the association identity.
func (nk *NewsKeyword) BeforeCreate(tx *gorm.DB) error {
	if nk.ID == uuid.Nil {
		nk.ID = uuid.New()
	}
	return nil
}
