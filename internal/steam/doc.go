// Package steam finds the game installed by the Steam client and starts it
// through a steam:// URL.
package steam
