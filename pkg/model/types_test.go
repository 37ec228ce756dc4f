package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/pkg/model"
)

func TestMonitorRequest_Validate(t *testing.T) {
	valid := model.MonitorRequest{URL: "https://example.test/item", TargetPrice: 20, DelayMinutes: 0}
	assert.NoError(t, valid.Validate())

	boundary := valid
	boundary.DelayMinutes = model.MaxDelayMinutes
	assert.NoError(t, boundary.Validate())

	tests := []struct {
		name string
		req  model.MonitorRequest
	}{
		{"no scheme", model.MonitorRequest{URL: "example.test/item", TargetPrice: 20}},
		{"no host", model.MonitorRequest{URL: "https://", TargetPrice: 20}},
		{"empty url", model.MonitorRequest{URL: "", TargetPrice: 20}},
		{"zero target", model.MonitorRequest{URL: "https://example.test", TargetPrice: 0}},
		{"delay over cap", model.MonitorRequest{URL: "https://example.test", TargetPrice: 20, DelayMinutes: model.MaxDelayMinutes + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.Equal(t, model.KindInvalidRequest, model.KindOf(err))
		})
	}
}

func TestError_UnwrapAndKindOf(t *testing.T) {
	cause := errors.New("connection reset")
	err := model.WrapError(model.KindFetchFailure, cause, "fetch %s", "https://example.test")

	assert.Equal(t, model.KindFetchFailure, model.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), "https://example.test")

	wrapped := fmt.Errorf("check price: %w", err)
	assert.Equal(t, model.KindFetchFailure, model.KindOf(wrapped), "kind survives further wrapping")

	assert.Equal(t, model.ErrorKind(""), model.KindOf(errors.New("plain")))
}
