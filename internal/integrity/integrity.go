package integrity

import "fmt"

// Verifier checks a fully buffered payload against an expected digest.
type Verifier interface {
	Verify(data []byte) error
}

// MismatchError reports a payload whose digest differs from the expected one.
type MismatchError struct {
	// Algorithm is the hash algorithm name, e.g. "sha256" or "sha512".
	Algorithm string
	// Expected is the encoded digest the payload should have.
	Expected string
	// Actual is the encoded digest the payload really has.
	Actual string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s digest mismatch: expected %s, got %s", e.Algorithm, e.Expected, e.Actual)
}

// Check runs v against data. A nil verifier accepts everything.
func Check(data []byte, v Verifier) error {
	if v == nil {
		return nil
	}

	return v.Verify(data)
}
