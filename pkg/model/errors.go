package model

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the failure classes of the monitoring pipeline.
// Every failure aborts the rest of the pipeline for its request; nothing
// is retried and nothing is fatal to the process.
type ErrorKind string

const (
	// KindFetchFailure covers unreachable pages, non-2xx statuses and
	// timeouts on the page fetch.
	KindFetchFailure ErrorKind = "fetch_failure"

	// Extraction failures, in pipeline order.
	KindNoPriceFound       ErrorKind = "no_price_found"
	KindUnrecognizedFormat ErrorKind = "unrecognized_format"
	KindParseFailure       ErrorKind = "parse_failure"

	// Delivery preconditions, checked before any transport call.
	KindRecipientMissing   ErrorKind = "recipient_missing"
	KindCredentialsMissing ErrorKind = "credentials_missing"
	KindSenderMissing      ErrorKind = "sender_missing"

	// KindDeliveryFailure means the transport rejected or failed to send.
	KindDeliveryFailure ErrorKind = "delivery_failure"

	// KindInvalidRequest covers malformed caller input.
	KindInvalidRequest ErrorKind = "invalid_request"
)

// Error is a pipeline failure with a machine-readable kind and a
// human-readable detail.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error with a formatted detail message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error that carries an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or empty string when err is not a
// pipeline error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
