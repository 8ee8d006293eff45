package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang-metal-scryper/internal/config"
	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/internal/repository"
	"golang-metal-scryper/pkg/logger"

	"github.com/stretchr/testify/require"
)

type stubNewsService struct {
	results []fetchOutcome
	calls   int
}

type fetchOutcome struct {
	result *dto.NewsFetchResult
	err    error
}

func (s *stubNewsService) FetchAndStoreNews(_ context.Context) (*dto.NewsFetchResult, error) {
	outcome := s.results[s.calls]
	s.calls++
	return outcome.result, outcome.err
}

func (s *stubNewsService) LatestNews(context.Context, int) ([]entity.MetalNews, error) {
	return nil, nil
}

func (s *stubNewsService) NewsBySource(context.Context, string) ([]entity.MetalNews, error) {
	return nil, nil
}

func (s *stubNewsService) SearchNews(context.Context, string) ([]entity.MetalNews, error) {
	return nil, nil
}

func (s *stubNewsService) ReindexAll(context.Context) (*dto.ReindexResult, error) {
	return nil, nil
}

type stubPriceService struct {
	result *dto.PriceFetchResult
	err    error
	calls  int
}

func (s *stubPriceService) FetchAndStorePrices(context.Context, []string) (*dto.PriceFetchResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubPriceService) LatestPrices(context.Context, []string) ([]entity.MetalPrice, error) {
	return nil, nil
}

func (s *stubPriceService) PriceBySymbol(context.Context, string) (*entity.MetalPrice, error) {
	return nil, nil
}

type stubNotifier struct {
	messages []string
}

func (s *stubNotifier) SendMessage(text string) error {
	s.messages = append(s.messages, text)
	return nil
}

func schedulerTestConfig() *config.Config {
	return &config.Config{
		Scheduler: config.Scheduler{
			NewsCron:     "0 * * * *",
			MaxRetries:   3,
			RetryBackoff: time.Millisecond,
			RunTimeout:   time.Minute,
		},
	}
}

func newTestScheduler(cfg *config.Config, newsSvc NewsService, priceSvc PriceService, notifier *stubNotifier) *schedulerService {
	return NewSchedulerService(cfg, logger.NewNop(), newsSvc, priceSvc, notifier).(*schedulerService)
}

func TestSchedulerService_RunNewsFetch_RetriesTransportFailure(t *testing.T) {
	newsSvc := &stubNewsService{results: []fetchOutcome{
		{err: fmt.Errorf("%w: all search terms failed", repository.ErrFeedFetch)},
		{result: &dto.NewsFetchResult{Success: true, Inserted: 4}},
	}}
	notifier := &stubNotifier{}

	s := newTestScheduler(schedulerTestConfig(), newsSvc, &stubPriceService{}, notifier)
	s.runNewsFetch(context.Background())

	require.Equal(t, 2, newsSvc.calls)
	require.Len(t, notifier.messages, 1)
	require.Contains(t, notifier.messages[0], "Completed")
}

func TestSchedulerService_RunNewsFetch_ExhaustsRetryBudget(t *testing.T) {
	transportErr := fmt.Errorf("%w: all search terms failed", repository.ErrFeedFetch)
	newsSvc := &stubNewsService{results: []fetchOutcome{
		{err: transportErr},
		{err: transportErr},
		{err: transportErr},
	}}
	notifier := &stubNotifier{}

	s := newTestScheduler(schedulerTestConfig(), newsSvc, &stubPriceService{}, notifier)
	s.runNewsFetch(context.Background())

	require.Equal(t, 3, newsSvc.calls)
	require.Len(t, notifier.messages, 1)
	require.Contains(t, notifier.messages[0], "Failed")
	require.Contains(t, notifier.messages[0], "3")
}

func TestSchedulerService_RunNewsFetch_NonRetryableErrorStops(t *testing.T) {
	newsSvc := &stubNewsService{results: []fetchOutcome{
		{err: errors.New("failed to store articles: connection refused")},
	}}
	notifier := &stubNotifier{}

	s := newTestScheduler(schedulerTestConfig(), newsSvc, &stubPriceService{}, notifier)
	s.runNewsFetch(context.Background())

	require.Equal(t, 1, newsSvc.calls)
	require.Len(t, notifier.messages, 1)
	require.Contains(t, notifier.messages[0], "Failed")
}

func TestSchedulerService_RunNewsFetch_NilNotifier(t *testing.T) {
	newsSvc := &stubNewsService{results: []fetchOutcome{
		{result: &dto.NewsFetchResult{Success: true}},
	}}

	s := NewSchedulerService(schedulerTestConfig(), logger.NewNop(), newsSvc, &stubPriceService{}, nil).(*schedulerService)

	require.NotPanics(t, func() { s.runNewsFetch(context.Background()) })
	require.Equal(t, 1, newsSvc.calls)
}

func TestSchedulerService_RunPriceFetch_NoRetry(t *testing.T) {
	priceSvc := &stubPriceService{err: repository.ErrExternalAPI}
	notifier := &stubNotifier{}

	s := newTestScheduler(schedulerTestConfig(), &stubNewsService{}, priceSvc, notifier)
	s.runPriceFetch(context.Background())

	require.Equal(t, 1, priceSvc.calls)
	require.Empty(t, notifier.messages)
}

func TestSchedulerService_Start_InvalidCron(t *testing.T) {
	cfg := schedulerTestConfig()
	cfg.Scheduler.NewsCron = "not a cron expression"

	s := newTestScheduler(cfg, &stubNewsService{}, &stubPriceService{}, &stubNotifier{})
	require.Error(t, s.Start(context.Background()))
}

func TestSchedulerService_StartStop(t *testing.T) {
	s := newTestScheduler(schedulerTestConfig(), &stubNewsService{}, &stubPriceService{}, &stubNotifier{})

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
