// Package logger wraps zap with a global sugared logger and context helpers.
//
// Every service receives a context and logs through it, so names and fields
// attached with WithName or WithKV follow the call chain. NewWithFile adds a
// rotating JSON file next to the console output for post-mortem diagnostics.
package logger
