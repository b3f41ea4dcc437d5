package usart

import "mcuperiph-go/hal/regmap"

// HandleInterrupt services one interrupt. A received byte is read from
// RDR, which clears RXNE, and passed to the receive callback. An overrun
// is counted and cleared through ICR, since a set ORE blocks further
// reception.
func (d *Device) HandleInterrupt() {
	isr := d.regs.ISR.Get()
	if isr&regmap.USART_ISR_RXNE != 0 {
		b := byte(d.regs.RDR.Get())
		if d.onRecv != nil {
			d.onRecv(b)
		}
	}
	if isr&regmap.USART_ISR_ORE != 0 {
		d.overrun++
		d.regs.ICR.Set(regmap.USART_ICR_ORECF)
	}
}
