package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var errInvalidEndpoint = errors.New("endpoint must be an absolute http(s) URL")

// Endpoint is the absolute address of one mirror. The zero value is invalid.
type Endpoint struct {
	u *url.URL
}

// ParseEndpoint validates raw and returns it as an Endpoint.
func ParseEndpoint(raw string) (Endpoint, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return Endpoint{}, fmt.Errorf("%q: %w", raw, errInvalidEndpoint)
	}

	return Endpoint{u: parsed}, nil
}

// URL returns a copy of the endpoint address.
func (e Endpoint) URL() *url.URL {
	if e.u == nil {
		return new(url.URL)
	}

	clone := *e.u

	return &clone
}

// String returns the endpoint address.
func (e Endpoint) String() string {
	if e.u == nil {
		return ""
	}

	return e.u.String()
}

// Join appends path elements to the endpoint path.
func (e Endpoint) Join(elem ...string) Endpoint {
	return Endpoint{u: e.URL().JoinPath(elem...)}
}

// WithQuery returns a copy of the endpoint with key set to value in the query string.
func (e Endpoint) WithQuery(key, value string) Endpoint {
	u := e.URL()
	query := u.Query()
	query.Set(key, value)
	u.RawQuery = query.Encode()

	return Endpoint{u: u}
}
