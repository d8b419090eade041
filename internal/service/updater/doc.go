// Package updater implements the launcher self-update handoff.
//
// A launcher binary cannot overwrite itself while it runs on every platform,
// so the update happens in two phases. Handoff, run by the launcher, writes
// the newest published build (or a copy of itself) into the cache directory,
// starts it with EnvLauncherPath and EnvLauncherPID set, and lets the caller
// exit. Complete, run by that tool copy after its work is done, waits for
// the launcher process to disappear and replaces the launcher binary with
// go-update.
package updater
