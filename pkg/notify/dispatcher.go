package notify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pricewatch/pkg/model"
)

// Dispatcher resolves the recipient, honors the requested delay and makes
// exactly one delivery attempt through its messenger. Configuration is
// checked at dispatch time; an incomplete configuration fails the single
// dispatch, never the process.
type Dispatcher struct {
	cfg       Config
	messenger Messenger
	logger    *slog.Logger
	after     func(time.Duration) <-chan time.Time
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAfterFunc replaces the timer used for delayed delivery. Used by
// tests to drive a simulated clock.
func WithAfterFunc(after func(time.Duration) <-chan time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.after = after }
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg Config, messenger Messenger, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		cfg:       cfg,
		messenger: messenger,
		logger:    logger,
		after:     time.After,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers body to the resolved recipient after the requested
// delay. The wait is a timer select, so only the calling goroutine
// suspends; unrelated requests keep flowing. There is no retry: a
// transport error surfaces as DeliveryFailure.
func (d *Dispatcher) Dispatch(ctx context.Context, body, recipientOverride string, delay time.Duration) (model.NotificationOutcome, error) {
	if d.cfg.AccountSID == "" || d.cfg.AuthToken == "" {
		return model.NotificationOutcome{}, model.Errorf(model.KindCredentialsMissing, "messaging credentials missing (SID/AUTH)")
	}

	to := recipientOverride
	if to == "" {
		to = d.cfg.DefaultTo
	}
	if to == "" {
		return model.NotificationOutcome{}, model.Errorf(model.KindRecipientMissing, "recipient number missing")
	}
	if !strings.HasPrefix(to, ChannelPrefix) {
		to = ChannelPrefix + to
	}

	if d.cfg.From == "" {
		return model.NotificationOutcome{}, model.Errorf(model.KindSenderMissing, "sender number missing (FROM_WHATSAPP)")
	}

	if delay > 0 {
		d.logger.Info("delivery delayed", "delay", delay.String(), "recipient", to)
		select {
		case <-d.after(delay):
		case <-ctx.Done():
			return model.NotificationOutcome{}, model.WrapError(model.KindDeliveryFailure, ctx.Err(), "canceled while waiting to deliver")
		}
	}

	sid, err := d.messenger.Send(ctx, Message{From: d.cfg.From, To: to, Body: body})
	if err != nil {
		return model.NotificationOutcome{}, model.WrapError(model.KindDeliveryFailure, err, "deliver message via %s", d.messenger.Name())
	}

	d.logger.Info("notification delivered", "messenger", d.messenger.Name(), "recipient", to, "sid", sid)
	return model.NotificationOutcome{Delivered: true, MessageID: sid, Recipient: to}, nil
}
