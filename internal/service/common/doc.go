// Package common holds helpers shared by several services: the user-facing
// notifier and the HTTP User-Agent of the launcher.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
