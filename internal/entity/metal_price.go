package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PricePoint is one entry of a metal's stored price history.
type PricePoint struct {
	Date            int64   `json:"date"`
	PriceNormalised float64 `json:"priceNormalised"`
	PriceType       string  `json:"priceType"`
}

// MetalPrice is one metal's price snapshot inside a fetch batch. Rows
// sharing a fetched_at value form one batch; history is append-only and
// rows are never updated.
type MetalPrice struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol         string           `gorm:"size:50;not null;index" json:"symbol"`
	Name           string           `gorm:"size:100" json:"name"`
	PriceUSD       decimal.Decimal  `gorm:"type:numeric(20,10);not null" json:"price_usd"`
	Unit           string           `gorm:"size:50;default:normalized" json:"unit"`
	IndicatorOne   *decimal.Decimal `gorm:"type:numeric(20,10)" json:"indicator_one,omitempty"`
	IndicatorTwo   *decimal.Decimal `gorm:"type:numeric(20,10)" json:"indicator_two,omitempty"`
	IndicatorThree *decimal.Decimal `gorm:"type:numeric(20,10)" json:"indicator_three,omitempty"`
	ChartIndicator *decimal.Decimal `gorm:"type:numeric(20,10)" json:"chart_indicator,omitempty"`
	LastDate       *time.Time       `json:"last_date,omitempty"`
	FetchedAt      time.Time        `gorm:"not null;index" json:"fetched_at"`
	PriceHistory   datatypes.JSON   `json:"price_history,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the MetalPrice model.
func (MetalPrice) TableName() string {
	return "metal_prices"
}

// BeforeCreate assigns the row identity.
func (p *MetalPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PriceHistoryCount returns the number of stored history points.
func (p *MetalPrice) PriceHistoryCount() int {
	if len(p.PriceHistory) == 0 {
		return 0
	}
	var points []PricePoint
	if err := json.Unmarshal(p.PriceHistory, &points); err != nil {
		return 0
	}
	return len(points)
}
