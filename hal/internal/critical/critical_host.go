//go:build !tinygo

// Package critical masks interrupts around main-flow updates that an
// interrupt routine also reads.
package critical

// State is a placeholder for interrupt state on regular Go.
type State uintptr

// Disable is a no-op on regular Go (for testing).
func Disable() State { return 0 }

// Restore is a no-op on regular Go (for testing).
func Restore(State) {}
