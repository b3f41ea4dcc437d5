//go:build tinygo && stm32f0

package regmap

import (
	"runtime/volatile"
	"unsafe"
)

// Raw layouts placed over the peripheral base addresses. Reserved words
// keep every register at its documented offset.

type adcRaw struct {
	ISR    volatile.Register32 // 0x00
	IER    volatile.Register32 // 0x04
	CR     volatile.Register32 // 0x08
	CFGR1  volatile.Register32 // 0x0C
	CFGR2  volatile.Register32 // 0x10
	SMPR   volatile.Register32 // 0x14
	_      [2]uint32
	TR     volatile.Register32 // 0x20
	_      uint32
	CHSELR volatile.Register32 // 0x28
	_      [5]uint32
	DR     volatile.Register32 // 0x40
}

type usartRaw struct {
	CR1, CR2, CR3, BRR, GTPR, RTOR, RQR, ISR, ICR, RDR, TDR volatile.Register32
}

type gpioRaw struct {
	MODER, OTYPER, OSPEEDR, PUPDR, IDR, ODR, BSRR, LCKR, AFRL, AFRH, BRR volatile.Register32
}

type rccRaw struct {
	CR, CFGR, CIR, APB2RSTR, APB1RSTR, AHBENR, APB2ENR, APB1ENR, BDCR, CSR, AHBRSTR, CFGR2, CFGR3, CR2 volatile.Register32
}

func init() {
	Selected = bind()
}

func bind() *STM32F0 {
	m := &STM32F0{}

	a := (*adcRaw)(unsafe.Pointer(uintptr(baseADC1)))
	m.adc1 = ADCBlock{
		ISR: &a.ISR, IER: &a.IER, CR: &a.CR, CFGR1: &a.CFGR1, CFGR2: &a.CFGR2,
		SMPR: &a.SMPR, TR: &a.TR, CHSELR: &a.CHSELR, DR: &a.DR,
	}
	m.adcCommon = ADCCommonBlock{CCR: (*volatile.Register32)(unsafe.Pointer(uintptr(baseADCCommon)))}

	m.usart1 = usartBlock(baseUSART1)
	m.usart2 = usartBlock(baseUSART2)

	m.gpio[PortA] = gpioBlock(baseGPIOA)
	m.gpio[PortB] = gpioBlock(baseGPIOB)
	m.gpio[PortC] = gpioBlock(baseGPIOC)
	m.gpio[PortD] = gpioBlock(baseGPIOD)
	m.gpio[PortF] = gpioBlock(baseGPIOF)

	c := (*rccRaw)(unsafe.Pointer(uintptr(baseRCC)))
	m.rcc = RCCBlock{
		CR: &c.CR, CFGR: &c.CFGR, CIR: &c.CIR, APB2RSTR: &c.APB2RSTR, APB1RSTR: &c.APB1RSTR,
		AHBENR: &c.AHBENR, APB2ENR: &c.APB2ENR, APB1ENR: &c.APB1ENR, BDCR: &c.BDCR, CSR: &c.CSR,
		AHBRSTR: &c.AHBRSTR, CFGR2: &c.CFGR2, CFGR3: &c.CFGR3, CR2: &c.CR2,
	}
	return m
}

func usartBlock(base uintptr) USARTBlock {
	u := (*usartRaw)(unsafe.Pointer(base))
	return USARTBlock{
		CR1: &u.CR1, CR2: &u.CR2, CR3: &u.CR3, BRR: &u.BRR, GTPR: &u.GTPR, RTOR: &u.RTOR,
		RQR: &u.RQR, ISR: &u.ISR, ICR: &u.ICR, RDR: &u.RDR, TDR: &u.TDR,
	}
}

func gpioBlock(base uintptr) *GPIOBlock {
	g := (*gpioRaw)(unsafe.Pointer(base))
	return &GPIOBlock{
		MODER: &g.MODER, OTYPER: &g.OTYPER, OSPEEDR: &g.OSPEEDR, PUPDR: &g.PUPDR, IDR: &g.IDR,
		ODR: &g.ODR, BSRR: &g.BSRR, LCKR: &g.LCKR, AFRL: &g.AFRL, AFRH: &g.AFRH, BRR: &g.BRR,
	}
}
