package fetch

import (
	"errors"

	"github.com/joomcode/errorx"

	"github.com/oshokin/llc-launcher/internal/integrity"
)

var (
	// ErrorsNamespace groups every failure produced while fetching from a mirror.
	ErrorsNamespace = errorx.NewNamespace("fetch")
	// TransportError covers connection failures, timeouts and truncated bodies.
	TransportError = ErrorsNamespace.NewType("transport_error")
	// StatusError covers non-200 responses.
	StatusError = ErrorsNamespace.NewType("status_error")
	// IntegrityError covers payloads whose digest does not match.
	IntegrityError = ErrorsNamespace.NewType("integrity_error")
	// DecodeError covers metadata that is not the JSON document we expect.
	DecodeError = ErrorsNamespace.NewType("decode_error")

	urlProperty        = errorx.RegisterPrintableProperty("url")
	statusCodeProperty = errorx.RegisterPrintableProperty("status_code")
	algorithmProperty  = errorx.RegisterPrintableProperty("algorithm")
	expectedProperty   = errorx.RegisterPrintableProperty("expected")
	actualProperty     = errorx.RegisterPrintableProperty("actual")

	// ErrEmptySourceSet is returned when a source set is built without endpoints.
	ErrEmptySourceSet = errors.New("source set has no endpoints")
)

const (
	transportErrorMsg = "request to '%s' failed"
	statusErrorMsg    = "unexpected status %d from '%s'"
	integrityErrorMsg = "payload from '%s' failed verification"
	decodeErrorMsg    = "malformed response from '%s'"
)

// NewTransportError wraps a network level failure for url.
func NewTransportError(cause error, url string) *errorx.Error {
	return TransportError.Wrap(cause, transportErrorMsg, url).
		WithProperty(urlProperty, url)
}

// NewStatusError reports a non-success response.
func NewStatusError(url string, statusCode int) *errorx.Error {
	return StatusError.New(statusErrorMsg, statusCode, url).
		WithProperty(urlProperty, url).
		WithProperty(statusCodeProperty, statusCode)
}

// NewIntegrityError wraps a verification failure for the payload from url.
func NewIntegrityError(cause error, url string) *errorx.Error {
	err := IntegrityError.Wrap(cause, integrityErrorMsg, url).
		WithProperty(urlProperty, url)

	var mismatch *integrity.MismatchError
	if errors.As(cause, &mismatch) {
		err = err.
			WithProperty(algorithmProperty, mismatch.Algorithm).
			WithProperty(expectedProperty, mismatch.Expected).
			WithProperty(actualProperty, mismatch.Actual)
	}

	return err
}

// NewDecodeError wraps a JSON decoding failure for url.
func NewDecodeError(cause error, url string) *errorx.Error {
	return DecodeError.Wrap(cause, decodeErrorMsg, url).
		WithProperty(urlProperty, url)
}

// IsOfType reports whether err, or an error it wraps, is a fetch error of type t.
func IsOfType(err error, t *errorx.Type) bool {
	var fetchErr *errorx.Error
	if !errors.As(err, &fetchErr) {
		return false
	}

	return fetchErr.IsOfType(t)
}

// StatusCode extracts the HTTP status code carried by a StatusError.
func StatusCode(err error) (int, bool) {
	var fetchErr *errorx.Error
	if !errors.As(err, &fetchErr) {
		return 0, false
	}

	value, ok := fetchErr.Property(statusCodeProperty)
	if !ok {
		return 0, false
	}

	code, ok := value.(int)

	return code, ok
}

// URL extracts the endpoint URL recorded on a fetch error.
func URL(err error) (string, bool) {
	var fetchErr *errorx.Error
	if !errors.As(err, &fetchErr) {
		return "", false
	}

	value, ok := fetchErr.Property(urlProperty)
	if !ok {
		return "", false
	}

	url, ok := value.(string)

	return url, ok
}
