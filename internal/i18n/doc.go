// Package i18n renders user-facing messages in Simplified Chinese or English
// through a golang.org/x/text message catalog.
package i18n
