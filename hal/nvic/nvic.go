// Package nvic enables, disables and prioritises interrupt lines.
package nvic

import "mcuperiph-go/hal/regmap"

// PeripheralPriority is the preemption priority every driver arms its line
// with. Cortex-M0 implements the top two priority bits, so this is the
// lowest level (3).
const PeripheralPriority uint8 = 0xC0

// Controller is the interrupt-controller service drivers consume.
type Controller interface {
	Enable(irq regmap.IRQ)
	Disable(irq regmap.IRQ)
	SetPriority(irq regmap.IRQ, priority uint8)
}

// Recorder is a Controller that only remembers what was asked of it.
type Recorder struct {
	enabled  map[regmap.IRQ]bool
	priority map[regmap.IRQ]uint8
}

func NewRecorder() *Recorder {
	return &Recorder{enabled: make(map[regmap.IRQ]bool), priority: make(map[regmap.IRQ]uint8)}
}

func (r *Recorder) Enable(irq regmap.IRQ)  { r.enabled[irq] = true }
func (r *Recorder) Disable(irq regmap.IRQ) { r.enabled[irq] = false }
func (r *Recorder) SetPriority(irq regmap.IRQ, priority uint8) {
	r.priority[irq] = priority
}

func (r *Recorder) Enabled(irq regmap.IRQ) bool { return r.enabled[irq] }

func (r *Recorder) Priority(irq regmap.IRQ) (uint8, bool) {
	p, ok := r.priority[irq]
	return p, ok
}
