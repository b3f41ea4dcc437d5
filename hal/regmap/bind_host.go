//go:build !tinygo

package regmap

import "mcuperiph-go/x/mmio"

func init() {
	Selected = NewMemory()
}

// NewMemory returns an STM32F0 map whose registers are plain *mmio.Reg
// values. Tests attach hooks to them to stand in for silicon.
func NewMemory() *STM32F0 {
	r := func() mmio.Register32 { return new(mmio.Reg) }
	m := &STM32F0{}
	m.adc1 = ADCBlock{
		ISR: r(), IER: r(), CR: r(), CFGR1: r(), CFGR2: r(),
		SMPR: r(), TR: r(), CHSELR: r(), DR: r(),
	}
	m.adcCommon = ADCCommonBlock{CCR: r()}
	for _, u := range []*USARTBlock{&m.usart1, &m.usart2} {
		*u = USARTBlock{
			CR1: r(), CR2: r(), CR3: r(), BRR: r(), GTPR: r(), RTOR: r(),
			RQR: r(), ISR: r(), ICR: r(), RDR: r(), TDR: r(),
		}
	}
	for _, p := range []Port{PortA, PortB, PortC, PortD, PortF} {
		m.gpio[p] = &GPIOBlock{
			MODER: r(), OTYPER: r(), OSPEEDR: r(), PUPDR: r(), IDR: r(), ODR: r(),
			BSRR: r(), LCKR: r(), AFRL: r(), AFRH: r(), BRR: r(),
		}
	}
	m.rcc = RCCBlock{
		CR: r(), CFGR: r(), CIR: r(), APB2RSTR: r(), APB1RSTR: r(), AHBENR: r(),
		APB2ENR: r(), APB1ENR: r(), BDCR: r(), CSR: r(), AHBRSTR: r(), CFGR2: r(),
		CFGR3: r(), CR2: r(),
	}
	return m
}
