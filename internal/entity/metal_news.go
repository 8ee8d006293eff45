package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MetalNews represents a metal industry news article fetched from RSS feeds.
// The backing table also carries a weighted tsvector column maintained by
// the repository write path; it is not mapped here.
type MetalNews struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:500;not null;index" json:"title"`
	Description string         `json:"description"`
	URL         string         `gorm:"size:1000;not null;uniqueIndex" json:"url"`
	Source      string         `gorm:"size:200;index" json:"source"`
	PublishedAt time.Time      `gorm:"index" json:"published_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	NewsKeywords []NewsKeyword `gorm:"foreignKey:NewsID" json:"news_keywords,omitempty"`

	// Populated by the ranked full-text search query.
	Rank float64 `gorm:"-" json:"rank,omitempty"`
}

// TableName specifies the table name for the MetalNews model.
func (MetalNews) TableName() string {
	return "metal_news"
}

// BeforeCreate assigns the article identity.
func (n *MetalNews) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// ShortDescription returns the description truncated to 100 characters.
func (n *MetalNews) ShortDescription() string {
	runes := []rune(n.Description)
	if len(runes) <= 100 {
		return n.Description
	}
	return string(runes[:97]) + "..."
}
