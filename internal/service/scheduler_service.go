package service

import (
	"context"
	"errors"
	"time"

	"golang-metal-scryper/internal/config"
	"golang-metal-scryper/internal/repository"
	"golang-metal-scryper/pkg/logger"
	"golang-metal-scryper/pkg/telegram"

	"github.com/robfig/cron/v3"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 5 * time.Minute
	defaultRunTimeout   = 30 * time.Minute
)

// SchedulerService runs the periodic fetch jobs: hourly news ingestion
// with a bounded retry budget, and an optional price refresh.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	newsSvc  NewsService
	priceSvc PriceService
	notifier telegram.Notifier
	cron     *cron.Cron
}

// NewSchedulerService creates a new SchedulerService. The notifier may be
// nil; run summaries are then only logged.
func NewSchedulerService(cfg *config.Config, log *logger.Logger, newsSvc NewsService, priceSvc PriceService, notifier telegram.Notifier) SchedulerService {
	return &schedulerService{
		cfg:      cfg,
		log:      log,
		newsSvc:  newsSvc,
		priceSvc: priceSvc,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *schedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.NewsCron, func() { s.runNewsFetch(ctx) }); err != nil {
		return err
	}

	if s.cfg.Scheduler.PriceCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.PriceCron, func() { s.runPriceFetch(ctx) }); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.StringField("news_cron", s.cfg.Scheduler.NewsCron),
		logger.StringField("price_cron", s.cfg.Scheduler.PriceCron))
	return nil
}

// Stop halts the scheduler; running jobs finish on their own contexts.
func (s *schedulerService) Stop() {
	s.cron.Stop()
	s.log.Info("Scheduler stopped")
}

// runNewsFetch executes one scheduled news run. Transport failures retry
// up to the budget with a multi-minute backoff; anything else is terminal
// for the run.
func (s *schedulerService) runNewsFetch(ctx context.Context) {
	maxRetries := s.cfg.Scheduler.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	backoff := s.cfg.Scheduler.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout())
	defer cancel()

	s.log.Info("Starting scheduled news fetch")

	var attempts int
	for attempt := 1; attempt <= maxRetries; attempt++ {
		attempts = attempt

		result, err := s.newsSvc.FetchAndStoreNews(runCtx)
		if err == nil {
			s.log.Info("Scheduled news fetch completed",
				logger.IntField("inserted", result.Inserted),
				logger.IntField("skipped", result.Skipped),
				logger.IntField("attempt", attempt))
			s.notify(telegram.FormatNewsFetchResult(result))
			return
		}

		if !errors.Is(err, repository.ErrFeedFetch) {
			s.log.Error("Scheduled news fetch failed with non-retryable error", logger.ErrorField(err))
			s.notify(telegram.FormatNewsFetchFailure(err, attempt))
			return
		}

		s.log.Error("Scheduled news fetch hit a transport failure",
			logger.ErrorField(err),
			logger.IntField("attempt", attempt),
			logger.IntField("max_retries", maxRetries))

		if attempt == maxRetries {
			s.notify(telegram.FormatNewsFetchFailure(err, attempts))
			return
		}

		select {
		case <-runCtx.Done():
			s.log.Error("Scheduled news fetch aborted before retry", logger.ErrorField(runCtx.Err()))
			return
		case <-time.After(backoff):
		}
	}
}

// runPriceFetch executes one scheduled price refresh. No retry at this
// layer; the next cron tick is the retry.
func (s *schedulerService) runPriceFetch(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout())
	defer cancel()

	s.log.Info("Starting scheduled price fetch")

	result, err := s.priceSvc.FetchAndStorePrices(runCtx, nil)
	if err != nil {
		s.log.Error("Scheduled price fetch failed", logger.ErrorField(err))
		return
	}

	s.log.Info("Scheduled price fetch completed", logger.IntField("inserted", result.Inserted))
	s.notify(telegram.FormatPriceFetchResult(result))
}

func (s *schedulerService) runTimeout() time.Duration {
	if s.cfg.Scheduler.RunTimeout > 0 {
		return s.cfg.Scheduler.RunTimeout
	}
	return defaultRunTimeout
}

func (s *schedulerService) notify(text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(text); err != nil {
		s.log.Warn("Failed to send telegram notification", logger.ErrorField(err))
	}
}
