// Package notify formats and delivers price alert messages through an
// external messaging channel.
package notify

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ChannelPrefix marks an address as reachable over WhatsApp. The
// dispatcher adds it to recipient addresses that lack it.
const ChannelPrefix = "whatsapp:"

// Message is a single outbound message.
type Message struct {
	From string
	To   string
	Body string
}

// Messenger delivers a message and returns the transport's message ID.
// Implementations must be safe for concurrent use.
type Messenger interface {
	// Name returns the messenger identifier.
	Name() string

	// Send makes exactly one delivery attempt.
	Send(ctx context.Context, msg Message) (string, error)
}

// Config holds the process-wide messaging settings, read once at startup.
type Config struct {
	AccountSID string
	AuthToken  string
	From       string
	DefaultTo  string
}

// FormatBody renders the fixed alert body. The format is part of the
// external contract; callers and tests may assert on it.
func FormatBody(url string, price, target decimal.Decimal, triggered bool) string {
	answer := "no"
	if triggered {
		answer = "yes"
	}
	return fmt.Sprintf("Price alert for %s\nCurrent price: %s\nTarget: %s\nTriggered: %s",
		url, price.StringFixed(2), target.StringFixed(2), answer)
}
