package repository

import (
	"testing"
	"time"

	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/pkg/logger"

	"github.com/stretchr/testify/require"
)

func newPriceRepoForTest() *metalPriceRepository {
	return &metalPriceRepository{log: logger.NewNop()}
}

func TestMetalPriceRepository_BuildBatch(t *testing.T) {
	lastDate := int64(1718000000000)
	raw := []dto.RawMetalPrice{
		{
			Material:       "Tense",
			IndicatorOne:   0.12,
			IndicatorTwo:   0.34,
			IndicatorThree: 0.56,
			ChartIndicator: 0.9,
			LastDate:       &lastDate,
			Prices: []dto.RawPricePoint{
				{Date: 1717900000000, PriceNormalised: 0.95, PriceType: "LME"},
				{Date: 1718000000000, PriceNormalised: 0.98, PriceType: "LME"},
			},
		},
	}

	fetchedAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	rows, summaries, err := newPriceRepoForTest().buildBatch(raw, fetchedAt)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, summaries, 1)

	row := rows[0]
	require.Equal(t, "Tense", row.Symbol)
	require.Equal(t, fetchedAt, row.FetchedAt)
	require.Equal(t, "normalized", row.Unit)

	// Current price is the last historical point.
	require.Equal(t, "0.98", row.PriceUSD.String())
	require.Equal(t, "0.12", row.IndicatorOne.String())
	require.Equal(t, "0.9", row.ChartIndicator.String())

	require.NotNil(t, row.LastDate)
	require.Equal(t, time.UnixMilli(lastDate).UTC(), *row.LastDate)
	require.Equal(t, 2, row.PriceHistoryCount())

	summary := summaries[0]
	require.Equal(t, "Tense", summary.Symbol)
	require.Equal(t, "0.9", summary.ChartIndicator.String())
	require.Equal(t, "0.12", summary.IndicatorOne.String())
	require.Equal(t, 2, summary.PriceHistoryCount)
}

func TestMetalPriceRepository_BuildBatch_SkipsMissingMaterial(t *testing.T) {
	raw := []dto.RawMetalPrice{
		{
			Material: "Tense",
			Prices:   []dto.RawPricePoint{{PriceNormalised: 0.98}},
		},
		{IndicatorOne: 0.1},
	}

	rows, summaries, err := newPriceRepoForTest().buildBatch(raw, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, summaries, 1)
	require.Equal(t, "Tense", rows[0].Symbol)
}

func TestMetalPriceRepository_BuildBatch_ChartIndicatorFallback(t *testing.T) {
	raw := []dto.RawMetalPrice{
		{Material: "Zorba", ChartIndicator: 0.5},
	}

	rows, _, err := newPriceRepoForTest().buildBatch(raw, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// No history, so the chart indicator stands in as the current price.
	require.Equal(t, "0.5", rows[0].PriceUSD.String())
	require.Equal(t, 0, rows[0].PriceHistoryCount())
	require.Nil(t, rows[0].LastDate)
}

func TestMetalPriceRepository_BuildBatch_ZeroLastDate(t *testing.T) {
	zero := int64(0)
	raw := []dto.RawMetalPrice{
		{Material: "Aroma", LastDate: &zero},
	}

	rows, _, err := newPriceRepoForTest().buildBatch(raw, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].LastDate)
}

func TestMetalPriceRepository_BuildBatch_SharedFetchedAt(t *testing.T) {
	raw := []dto.RawMetalPrice{
		{Material: "Tense", Prices: []dto.RawPricePoint{{PriceNormalised: 0.98}}},
		{Material: "Zorba", ChartIndicator: 0.5},
		{Material: "Aroma", Prices: []dto.RawPricePoint{{PriceNormalised: 1.02}}},
	}

	fetchedAt := time.Now().UTC()
	rows, _, err := newPriceRepoForTest().buildBatch(raw, fetchedAt)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, row := range rows {
		require.Equal(t, fetchedAt, row.FetchedAt)
	}
}
