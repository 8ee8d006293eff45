package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestMetalPrice_PriceHistoryCount(t *testing.T) {
	points := []PricePoint{
		{Date: 1700000000000, PriceNormalised: 0.95, PriceType: "LME"},
		{Date: 1700086400000, PriceNormalised: 0.97, PriceType: "LME"},
		{Date: 1700172800000, PriceNormalised: 0.98, PriceType: "LME"},
	}
	raw, err := json.Marshal(points)
	require.NoError(t, err)

	p := MetalPrice{PriceHistory: datatypes.JSON(raw)}
	require.Equal(t, 3, p.PriceHistoryCount())
}

func TestMetalPrice_PriceHistoryCount_Empty(t *testing.T) {
	require.Equal(t, 0, (&MetalPrice{}).PriceHistoryCount())
	require.Equal(t, 0, (&MetalPrice{PriceHistory: datatypes.JSON("[]")}).PriceHistoryCount())
}

func TestMetalPrice_PriceHistoryCount_MalformedJSON(t *testing.T) {
	p := MetalPrice{PriceHistory: datatypes.JSON("{not json")}
	require.Equal(t, 0, p.PriceHistoryCount())
}
