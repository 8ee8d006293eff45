package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-metal-scryper/internal/config"
	"golang-metal-scryper/pkg/logger"

	"github.com/stretchr/testify/require"
)

func priceConfig(apiURL string) *config.Config {
	return &config.Config{
		Prices: config.Prices{
			APIURL:              apiURL,
			APITimeout:          5 * time.Second,
			MaxRequestPerMinute: 600,
		},
	}
}

func TestPriceAPIRepository_FetchPrices(t *testing.T) {
	payload := `[
		{
			"material": "Tense",
			"indicatorOne": 0.12,
			"indicatorTwo": 0.34,
			"chartIndicator": 0.9,
			"lastDate": 1718000000000,
			"prices": [
				{"date": 1717900000000, "priceNormalised": 0.95, "priceType": "LME"},
				{"date": 1718000000000, "priceNormalised": 0.98, "priceType": "LME"}
			]
		},
		{"material": "Zorba", "chartIndicator": 0.5, "prices": []}
	]`

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	repo := NewPriceAPIRepository(priceConfig(srv.URL), logger.NewNop())

	prices, err := repo.FetchPrices(context.Background(), []string{"Tense", "Zorba"})
	require.NoError(t, err)
	require.Len(t, prices, 2)

	require.Equal(t, "Tense", prices[0].Material)
	require.Equal(t, 0.12, prices[0].IndicatorOne)
	require.Equal(t, 0.9, prices[0].ChartIndicator)
	require.NotNil(t, prices[0].LastDate)
	require.Equal(t, int64(1718000000000), *prices[0].LastDate)
	require.Len(t, prices[0].Prices, 2)
	require.Equal(t, 0.98, prices[0].Prices[1].PriceNormalised)

	require.Equal(t, "Zorba", prices[1].Material)
	require.Empty(t, prices[1].Prices)

	// The advisory filter travels as repeated query params.
	require.Equal(t, "metals=Tense&metals=Zorba", gotQuery)
}

func TestPriceAPIRepository_FetchPrices_NoFilter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	repo := NewPriceAPIRepository(priceConfig(srv.URL), logger.NewNop())

	prices, err := repo.FetchPrices(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, prices)
	require.Empty(t, gotQuery)
}

func TestPriceAPIRepository_FetchPrices_NonArrayResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"detail": "unexpected shape"}`)
	}))
	defer srv.Close()

	repo := NewPriceAPIRepository(priceConfig(srv.URL), logger.NewNop())

	_, err := repo.FetchPrices(context.Background(), nil)
	require.ErrorIs(t, err, ErrExternalAPI)
	require.Contains(t, err.Error(), "expected array")
}

func TestPriceAPIRepository_FetchPrices_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := NewPriceAPIRepository(priceConfig(srv.URL), logger.NewNop())

	_, err := repo.FetchPrices(context.Background(), []string{"Tense"})
	require.ErrorIs(t, err, ErrExternalAPI)
}

func TestPriceAPIRepository_FetchPrices_TransportFailure(t *testing.T) {
	repo := NewPriceAPIRepository(priceConfig("http://127.0.0.1:1"), logger.NewNop())

	_, err := repo.FetchPrices(context.Background(), nil)
	require.ErrorIs(t, err, ErrExternalAPI)
}
