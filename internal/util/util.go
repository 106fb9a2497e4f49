// Package util holds the debug flag, the logger and the shared HTTP clients.
package util

// IsDebug controls debug logging across the addon.
var IsDebug bool

// SetDebugMode sets the debug mode
func SetDebugMode(debug bool) {
	IsDebug = debug
}
