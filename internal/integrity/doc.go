// Package integrity verifies downloaded payloads before they are trusted.
//
// Two verifiers are provided: Digest for raw SHA-256 hashes published by the
// vendor API, and SRI for the integrity strings published by npm registries.
// Both operate on fully buffered data and report *MismatchError on failure.
package integrity
