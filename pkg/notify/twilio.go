package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioAPIBase = "https://api.twilio.com"

// TwilioMessenger sends WhatsApp messages through the Twilio Messages
// REST API.
type TwilioMessenger struct {
	accountSID string
	authToken  string
	baseURL    string
	client     *http.Client
}

// TwilioOption customizes a TwilioMessenger.
type TwilioOption func(*TwilioMessenger)

// WithBaseURL points the messenger at an alternate API host. Used by
// tests to target an httptest server.
func WithBaseURL(base string) TwilioOption {
	return func(m *TwilioMessenger) { m.baseURL = base }
}

// NewTwilioMessenger creates a Twilio-backed messenger.
func NewTwilioMessenger(accountSID, authToken string, opts ...TwilioOption) *TwilioMessenger {
	m := &TwilioMessenger{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    twilioAPIBase,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *TwilioMessenger) Name() string { return "twilio" }

// Send posts the message to the account's message resource and returns
// the SID Twilio assigns to it.
func (m *TwilioMessenger) Send(ctx context.Context, msg Message) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", m.baseURL, m.accountSID)

	form := url.Values{}
	form.Set("From", msg.From)
	form.Set("To", msg.To)
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.accountSID, m.authToken)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send twilio message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr twilioError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return "", fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}

	var created twilioMessage
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode twilio response: %w", err)
	}
	return created.SID, nil
}

type twilioMessage struct {
	SID string `json:"sid"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
