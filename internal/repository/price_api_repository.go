package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang-metal-scryper/internal/config"
	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/pkg/logger"

	"golang.org/x/time/rate"
)

// PriceAPIRepository fetches the raw metal price payload from the external
// price API.
type PriceAPIRepository interface {
	FetchPrices(ctx context.Context, metals []string) ([]dto.RawMetalPrice, error)
}

type priceAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
}

// NewPriceAPIRepository creates a new PriceAPIRepository.
func NewPriceAPIRepository(cfg *config.Config, log *logger.Logger) PriceAPIRepository {
	maxPerMinute := cfg.Prices.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	timeout := cfg.Prices.APITimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &priceAPIRepository{
		cfg:            cfg,
		log:            log,
		client:         &http.Client{Timeout: timeout},
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1),
	}
}

// FetchPrices issues one request to the external API. The metals filter is
// forwarded as repeated query params; the API treats it as advisory. The
// one structural contract enforced here is that the response body is a
// JSON array.
func (r *priceAPIRepository) FetchPrices(ctx context.Context, metals []string) ([]dto.RawMetalPrice, error) {
	params := url.Values{}
	for _, metal := range metals {
		params.Add("metals", metal)
	}

	apiURL := r.cfg.Prices.APIURL
	if len(params) > 0 {
		apiURL = fmt.Sprintf("%s?%s", apiURL, params.Encode())
	}

	body, err := r.sendRequest(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	var payload []dto.RawMetalPrice
	if err := json.Unmarshal(body, &payload); err != nil {
		r.log.Error("Unexpected price API response shape", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: invalid response format, expected array", ErrExternalAPI)
	}

	return payload, nil
}

func (r *priceAPIRepository) sendRequest(ctx context.Context, apiURL string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrExternalAPI, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrExternalAPI, err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error("Price API request failed", logger.ErrorField(err), logger.StringField("url", apiURL))
		return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.log.Error("Price API returned non-2xx status",
			logger.IntField("status", resp.StatusCode), logger.StringField("url", apiURL))
		return nil, fmt.Errorf("%w: status code %d", ErrExternalAPI, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrExternalAPI, err)
	}

	return body, nil
}
