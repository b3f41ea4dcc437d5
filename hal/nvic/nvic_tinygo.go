//go:build tinygo && cortexm

package nvic

import (
	"device/arm"

	"mcuperiph-go/hal/regmap"
)

// ARM drives the Cortex-M NVIC.
type ARM struct{}

func (ARM) Enable(irq regmap.IRQ)  { arm.EnableIRQ(uint32(irq)) }
func (ARM) Disable(irq regmap.IRQ) { arm.DisableIRQ(uint32(irq)) }
func (ARM) SetPriority(irq regmap.IRQ, priority uint8) {
	arm.SetPriority(uint32(irq), uint32(priority))
}
