// Package monitor runs the price check pipeline: fetch, extract,
// evaluate, and notify when the threshold is met.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"pricewatch/pkg/model"
	"pricewatch/pkg/notify"
)

// Fetcher retrieves page content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// PriceExtractor reduces page content to a price.
type PriceExtractor interface {
	Extract(pageContent []byte) (model.ExtractedPrice, error)
}

// Notifier delivers an alert body, honoring a delay.
type Notifier interface {
	Dispatch(ctx context.Context, body, recipientOverride string, delay time.Duration) (model.NotificationOutcome, error)
}

// Triggered reports whether price meets the threshold. The comparison is
// inclusive: equality triggers.
func Triggered(price, target decimal.Decimal) bool {
	return price.LessThanOrEqual(target)
}

// Service composes fetch, extraction, evaluation and dispatch into the
// single check operation. It holds no per-request state; every request is
// handled independently.
type Service struct {
	fetcher    Fetcher
	extractor  PriceExtractor
	dispatcher Notifier
	logger     *slog.Logger
}

// NewService creates the orchestrator.
func NewService(fetcher Fetcher, extractor PriceExtractor, dispatcher Notifier, logger *slog.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		extractor:  extractor,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Check runs the pipeline for one request. Every failure aborts the rest
// of the pipeline and surfaces to the caller; a dispatch failure fails
// the whole operation even though evaluation succeeded, so a triggered
// alert is never silently dropped. When the dispatcher delays delivery,
// Check waits for the delivery to complete.
func (s *Service) Check(ctx context.Context, req model.MonitorRequest) (model.MonitorResult, error) {
	if err := req.Validate(); err != nil {
		return model.MonitorResult{}, err
	}

	page, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		s.logger.Warn("page fetch failed", "url", req.URL, "error", err)
		return model.MonitorResult{}, err
	}

	price, err := s.extractor.Extract(page)
	if err != nil {
		s.logger.Warn("price extraction failed", "url", req.URL, "error", err)
		return model.MonitorResult{}, err
	}

	target := req.Target()
	triggered := Triggered(price.Value, target)
	s.logger.Info("price evaluated",
		"url", req.URL,
		"price", price.Value.String(),
		"source", price.Source,
		"target", target.String(),
		"triggered", triggered,
	)

	result := model.MonitorResult{Price: price, Triggered: triggered}
	if !triggered {
		return result, nil
	}

	body := notify.FormatBody(req.URL, price.Value, target, triggered)
	outcome, err := s.dispatcher.Dispatch(ctx, body, req.SendTo, time.Duration(req.DelayMinutes)*time.Minute)
	if err != nil {
		return model.MonitorResult{}, err
	}

	result.Notification = &outcome
	return result, nil
}
