//go:build !linux

package native

// setBackgroundPriority is a no-op where per-thread priorities are not
// available.
func setBackgroundPriority() error { return nil }
