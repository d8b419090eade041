// Package registry reads package metadata from npm compatible registries.
package registry
