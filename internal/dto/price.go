package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawPricePoint is a single historical price point as delivered by the
// external metal price API.
type RawPricePoint struct {
	Date            int64   `json:"date"`
	PriceNormalised float64 `json:"priceNormalised"`
	PriceType       string  `json:"priceType"`
}

// RawMetalPrice is one item of the external price API payload. Numeric
// fields absent in the payload decode to zero.
type RawMetalPrice struct {
	Material       string          `json:"material"`
	IndicatorOne   float64         `json:"indicatorOne"`
	IndicatorTwo   float64         `json:"indicatorTwo"`
	IndicatorThree float64         `json:"indicatorThree"`
	ChartIndicator float64         `json:"chartIndicator"`
	LastDate       *int64          `json:"lastDate"`
	Prices         []RawPricePoint `json:"prices"`
}

// PriceSummary is the per-symbol summary returned by a price fetch.
type PriceSummary struct {
	Symbol            string          `json:"symbol"`
	ChartIndicator    decimal.Decimal `json:"chart_indicator"`
	IndicatorOne      decimal.Decimal `json:"indicator_one"`
	PriceHistoryCount int             `json:"price_history_count"`
}

// PriceFetchResult is the outcome of a price fetch run.
type PriceFetchResult struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Inserted  int            `json:"inserted"`
	FetchedAt time.Time      `json:"fetched_at"`
	Prices    []PriceSummary `json:"prices"`
}

// FetchPricesRequest optionally narrows a price fetch to a symbol subset.
type FetchPricesRequest struct {
	Metals []string `json:"metals,omitempty"`
}

// ErrorResponse is the generic error payload for the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
