// Package config defines the launcher settings and provides helpers to
// load, validate and save them in YAML format.
//
// On first start LoadOrCreate writes the defaults, importing values from the
// TOML files of older launcher releases when they are present.
package config
