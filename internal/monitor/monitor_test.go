package monitor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/monitor"
	"pricewatch/pkg/extract"
	"pricewatch/pkg/model"
)

type stubFetcher struct {
	page []byte
	err  error
	urls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.page, f.err
}

type spyDispatcher struct {
	bodies    []string
	overrides []string
	delays    []time.Duration
	outcome   model.NotificationOutcome
	err       error
}

func (d *spyDispatcher) Dispatch(_ context.Context, body, override string, delay time.Duration) (model.NotificationOutcome, error) {
	d.bodies = append(d.bodies, body)
	d.overrides = append(d.overrides, override)
	d.delays = append(d.delays, delay)
	return d.outcome, d.err
}

func newService(fetcher *stubFetcher, dispatcher *spyDispatcher) *monitor.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return monitor.NewService(fetcher, extract.New(extract.DefaultRules()), dispatcher, logger)
}

func validRequest() model.MonitorRequest {
	return model.MonitorRequest{
		URL:         "https://example.test/item",
		TargetPrice: 20.00,
	}
}

func TestCheck_TriggeredSendsOneNotification(t *testing.T) {
	fetcher := &stubFetcher{page: []byte(`<html><body><span id="priceblock_ourprice">$19.99</span></body></html>`)}
	dispatcher := &spyDispatcher{outcome: model.NotificationOutcome{Delivered: true, MessageID: "SM1", Recipient: "whatsapp:+2000"}}
	svc := newService(fetcher, dispatcher)

	result, err := svc.Check(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Triggered)
	assert.True(t, result.Price.Value.Equal(decimal.RequireFromString("19.99")), "got %s", result.Price.Value)
	require.NotNil(t, result.Notification)
	assert.Equal(t, "SM1", result.Notification.MessageID)

	require.Len(t, dispatcher.bodies, 1)
	assert.Contains(t, dispatcher.bodies[0], "https://example.test/item")
	assert.Contains(t, dispatcher.bodies[0], "19.99")
	assert.Contains(t, dispatcher.bodies[0], "20.0")
	assert.Equal(t, []string{"https://example.test/item"}, fetcher.urls)
}

func TestCheck_EqualityTriggers(t *testing.T) {
	fetcher := &stubFetcher{page: []byte(`<html><body><span id="priceblock_ourprice">$20.00</span></body></html>`)}
	dispatcher := &spyDispatcher{outcome: model.NotificationOutcome{Delivered: true}}
	svc := newService(fetcher, dispatcher)

	result, err := svc.Check(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, result.Triggered)
	assert.Len(t, dispatcher.bodies, 1)
}

func TestCheck_NotTriggeredSkipsDispatch(t *testing.T) {
	fetcher := &stubFetcher{page: []byte(`<html><body><span id="priceblock_ourprice">$29.99</span></body></html>`)}
	dispatcher := &spyDispatcher{}
	svc := newService(fetcher, dispatcher)

	result, err := svc.Check(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, result.Triggered)
	assert.Nil(t, result.Notification)
	assert.Empty(t, dispatcher.bodies, "no delivery attempt when not triggered")
}

func TestCheck_PassesDelayAndOverride(t *testing.T) {
	fetcher := &stubFetcher{page: []byte(`<html><body><span id="priceblock_ourprice">$10.00</span></body></html>`)}
	dispatcher := &spyDispatcher{outcome: model.NotificationOutcome{Delivered: true}}
	svc := newService(fetcher, dispatcher)

	req := validRequest()
	req.DelayMinutes = 15
	req.SendTo = "+3000"

	_, err := svc.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{15 * time.Minute}, dispatcher.delays)
	assert.Equal(t, []string{"+3000"}, dispatcher.overrides)
}

func TestCheck_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.MonitorRequest)
	}{
		{"relative url", func(r *model.MonitorRequest) { r.URL = "/just/a/path" }},
		{"zero target", func(r *model.MonitorRequest) { r.TargetPrice = 0 }},
		{"negative target", func(r *model.MonitorRequest) { r.TargetPrice = -5 }},
		{"delay too large", func(r *model.MonitorRequest) { r.DelayMinutes = 1441 }},
		{"negative delay", func(r *model.MonitorRequest) { r.DelayMinutes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{}
			dispatcher := &spyDispatcher{}
			svc := newService(fetcher, dispatcher)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Check(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, model.KindInvalidRequest, model.KindOf(err))
			assert.Empty(t, fetcher.urls, "no fetch on invalid input")
		})
	}
}

func TestCheck_FetchFailureStopsPipeline(t *testing.T) {
	fetcher := &stubFetcher{err: model.Errorf(model.KindFetchFailure, "boom")}
	dispatcher := &spyDispatcher{}
	svc := newService(fetcher, dispatcher)

	_, err := svc.Check(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, model.KindFetchFailure, model.KindOf(err))
	assert.Empty(t, dispatcher.bodies)
}

func TestCheck_ExtractionFailureStopsPipeline(t *testing.T) {
	fetcher := &stubFetcher{page: []byte(`<html><body>sold out</body></html>`)}
	dispatcher := &spyDispatcher{}
	svc := newService(fetcher, dispatcher)

	_, err := svc.Check(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, model.KindNoPriceFound, model.KindOf(err))
	assert.Empty(t, dispatcher.bodies)
}

func TestCheck_DispatchFailureFailsOperation(t *testing.T) {
	fetcher := &stubFetcher{page: []byte(`<html><body><span id="priceblock_ourprice">$19.99</span></body></html>`)}
	dispatcher := &spyDispatcher{err: model.WrapError(model.KindDeliveryFailure, errors.New("transport down"), "deliver")}
	svc := newService(fetcher, dispatcher)

	_, err := svc.Check(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, model.KindDeliveryFailure, model.KindOf(err))
}

func TestTriggered(t *testing.T) {
	target := decimal.NewFromFloat(20.0)
	assert.True(t, monitor.Triggered(decimal.RequireFromString("19.99"), target))
	assert.True(t, monitor.Triggered(decimal.RequireFromString("20.00"), target))
	assert.False(t, monitor.Triggered(decimal.RequireFromString("20.01"), target))
}
