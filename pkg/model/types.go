package model

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// MonitorRequest describes a single price check: which page to fetch,
// the price at or below which a notification fires, and how delivery
// should happen.
type MonitorRequest struct {
	URL          string  `json:"url"`
	TargetPrice  float64 `json:"target_price"`
	DelayMinutes int     `json:"delay_minutes"`
	SendTo       string  `json:"send_to,omitempty"`
}

// MaxDelayMinutes caps the delivery delay at 24 hours.
const MaxDelayMinutes = 1440

// Validate checks the request invariants. It returns an InvalidRequest
// error describing the first violation found.
func (r *MonitorRequest) Validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(KindInvalidRequest, "url must be an absolute URL with scheme and host")
	}
	if r.TargetPrice <= 0 {
		return Errorf(KindInvalidRequest, "target_price must be greater than zero")
	}
	if r.DelayMinutes < 0 || r.DelayMinutes > MaxDelayMinutes {
		return Errorf(KindInvalidRequest, "delay_minutes must be between 0 and %d", MaxDelayMinutes)
	}
	return nil
}

// Target returns the threshold as a decimal for exact comparison.
func (r *MonitorRequest) Target() decimal.Decimal {
	return decimal.NewFromFloat(r.TargetPrice)
}

// ExtractedPrice is the result of a successful extraction: the numeric
// value and the name of the strategy that produced it. Constructed once
// per fetch, never mutated.
type ExtractedPrice struct {
	Value  decimal.Decimal `json:"value"`
	Source string          `json:"source"`
}

// NotificationOutcome records a confirmed delivery. It exists only when
// the threshold was triggered and the transport accepted the message.
type NotificationOutcome struct {
	Delivered bool   `json:"delivered"`
	MessageID string `json:"message_id,omitempty"`
	Recipient string `json:"recipient"`
}

// MonitorResult is the sole artifact returned to the caller. Nothing is
// persisted between requests.
type MonitorResult struct {
	Price        ExtractedPrice       `json:"price"`
	Triggered    bool                 `json:"triggered"`
	Notification *NotificationOutcome `json:"notification,omitempty"`
}
