//go:build tinygo

package critical

import "runtime/interrupt"

type State = interrupt.State

// Disable masks interrupts and returns the previous state.
func Disable() State { return interrupt.Disable() }

// Restore restores the interrupt state.
func Restore(s State) { interrupt.Restore(s) }
