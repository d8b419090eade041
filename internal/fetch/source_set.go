package fetch

import "fmt"

// SourceSet is an ordered, non-empty list of interchangeable endpoints for one
// logical resource. Order is a priority hint used by Race.
type SourceSet struct {
	endpoints []Endpoint
}

// NewSourceSet builds a source set from endpoints.
func NewSourceSet(endpoints ...Endpoint) (SourceSet, error) {
	if len(endpoints) == 0 {
		return SourceSet{}, ErrEmptySourceSet
	}

	return SourceSet{endpoints: append([]Endpoint(nil), endpoints...)}, nil
}

// ParseSourceSet parses every raw URL and builds a source set from them.
func ParseSourceSet(raw ...string) (SourceSet, error) {
	endpoints := make([]Endpoint, 0, len(raw))

	for _, r := range raw {
		endpoint, err := ParseEndpoint(r)
		if err != nil {
			return SourceSet{}, err
		}

		endpoints = append(endpoints, endpoint)
	}

	return NewSourceSet(endpoints...)
}

// Len returns the number of endpoints.
func (s SourceSet) Len() int {
	return len(s.endpoints)
}

// IsZero reports whether the set was never constructed.
func (s SourceSet) IsZero() bool {
	return len(s.endpoints) == 0
}

// Endpoints returns a copy of the endpoints in priority order.
func (s SourceSet) Endpoints() []Endpoint {
	return append([]Endpoint(nil), s.endpoints...)
}

// Join returns a new set whose endpoints have elem appended to their paths.
func (s SourceSet) Join(elem ...string) SourceSet {
	return s.Map(func(e Endpoint) Endpoint {
		return e.Join(elem...)
	})
}

// Map returns a new set with fn applied to every endpoint.
func (s SourceSet) Map(fn func(Endpoint) Endpoint) SourceSet {
	mapped := make([]Endpoint, len(s.endpoints))
	for i, e := range s.endpoints {
		mapped[i] = fn(e)
	}

	return SourceSet{endpoints: mapped}
}

// String renders the set for logs.
func (s SourceSet) String() string {
	return fmt.Sprint(s.endpoints)
}
