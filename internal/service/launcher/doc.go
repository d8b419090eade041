// Package launcher is what the llc-launcher binary runs: it finds the game,
// brings the localization up to date through the configured channel and
// starts the game through Steam.
package launcher
