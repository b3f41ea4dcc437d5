// Package sim models the status-bit behaviour of STM32F0 peripherals on
// top of in-memory registers, driven by a manual tick clock. It stands in
// for silicon in host tests.
package sim

import (
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/x/mmio"
	"mcuperiph-go/x/timex"
)

// Never is a delay that no test budget reaches.
const Never = ^uint32(0)

// ADCModel sets how many ticks each hardware step takes.
type ADCModel struct {
	CalibrationTicks uint32 // ADCAL self-clears
	ReadyTicks       uint32 // ADRDY raised after ADEN
	ConversionTicks  uint32 // EOC raised after ADSTART
	StopTicks        uint32 // ADSTP self-clears
	DisableTicks     uint32 // ADDIS clears ADEN
	Sample           uint16 // value presented in DR

	calAt, enAt, convAt, stpAt, disAt uint32
	readyRaised, converted           bool
}

// Silicon is one simulated MCU.
type Silicon struct {
	Clock *timex.ManualClock
	Map   *regmap.STM32F0
	ADC   ADCModel

	HSI14Ticks uint32
	hsiAt      uint32

	// Stuck masks enable bits that never latch, per bus.
	Stuck map[regmap.Bus]uint32

	// Sent records bytes written to each USART's TDR.
	Sent map[regmap.Periph][]byte
	// TXBusy keeps TXE low on every USART.
	TXBusy bool
}

// Reg returns the in-memory register behind r.
func Reg(r mmio.Register32) *mmio.Reg { return r.(*mmio.Reg) }

// New returns a simulated MCU with short, successful default timings.
func New() *Silicon {
	s := &Silicon{
		Clock: timex.NewManualClock(0),
		Map:   regmap.NewMemory(),
		ADC: ADCModel{
			CalibrationTicks: 10,
			ReadyTicks:       5,
			ConversionTicks:  20,
			StopTicks:        3,
			DisableTicks:     3,
			Sample:           0x0A5A,
		},
		HSI14Ticks: 2,
		Stuck:      make(map[regmap.Bus]uint32),
		Sent:       make(map[regmap.Periph][]byte),
	}
	s.wireRCC()
	s.wireADC()
	s.wireUSART(regmap.USART1)
	s.wireUSART(regmap.USART2)
	return s
}

func (s *Silicon) now() uint32 { return s.Clock.Peek() }

func elapsed(now, at, ticks uint32) bool {
	return ticks != Never && now-at >= ticks
}

func (s *Silicon) wireRCC() {
	rcc := s.Map.RCC()
	stick := func(b regmap.Bus) func(cur, w uint32) uint32 {
		return func(_, w uint32) uint32 { return w &^ s.Stuck[b] }
	}
	Reg(rcc.AHBENR).OnWrite = stick(regmap.AHB)
	Reg(rcc.APB1ENR).OnWrite = stick(regmap.APB1)
	Reg(rcc.APB2ENR).OnWrite = stick(regmap.APB2)

	cr2 := Reg(rcc.CR2)
	cr2.OnWrite = func(cur, w uint32) uint32 {
		if w&^cur&regmap.RCC_CR2_HSI14ON != 0 {
			s.hsiAt = s.now()
		}
		return w
	}
	cr2.OnRead = func(cur uint32) uint32 {
		if cur&regmap.RCC_CR2_HSI14ON != 0 && elapsed(s.now(), s.hsiAt, s.HSI14Ticks) {
			cur |= regmap.RCC_CR2_HSI14RDY
		}
		return cur
	}
}

func (s *Silicon) wireADC() {
	blk, _ := s.Map.ADC(regmap.ADC1)
	cr, isr, dr := Reg(blk.CR), Reg(blk.ISR), Reg(blk.DR)
	m := &s.ADC

	cr.OnWrite = func(cur, w uint32) uint32 {
		set := w &^ cur
		now := s.now()
		if set&regmap.ADC_CR_ADCAL != 0 {
			m.calAt = now
		}
		if set&regmap.ADC_CR_ADEN != 0 {
			m.enAt, m.readyRaised = now, false
		}
		if set&regmap.ADC_CR_ADSTART != 0 {
			m.convAt, m.converted = now, false
		}
		if set&regmap.ADC_CR_ADSTP != 0 {
			m.stpAt = now
		}
		if set&regmap.ADC_CR_ADDIS != 0 {
			m.disAt = now
		}
		return w
	}
	cr.OnRead = func(uint32) uint32 { s.stepADC(); return cr.Peek() }
	isr.OnRead = func(uint32) uint32 { s.stepADC(); return isr.Peek() }
	isr.OnWrite = func(cur, w uint32) uint32 { return cur &^ w }
	dr.OnRead = func(uint32) uint32 {
		s.stepADC()
		isr.Poke(isr.Peek() &^ regmap.ADC_ISR_EOC)
		if Reg(blk.CFGR1).Peek()&regmap.ADC_CFGR1_CONT != 0 {
			m.convAt, m.converted = s.now(), false
		}
		return uint32(m.Sample)
	}
}

func (s *Silicon) stepADC() {
	blk, _ := s.Map.ADC(regmap.ADC1)
	cr, isr := Reg(blk.CR), Reg(blk.ISR)
	m := &s.ADC
	now := s.now()
	c, i := cr.Peek(), isr.Peek()

	if c&regmap.ADC_CR_ADCAL != 0 && elapsed(now, m.calAt, m.CalibrationTicks) {
		c &^= regmap.ADC_CR_ADCAL
	}
	if c&regmap.ADC_CR_ADSTP != 0 && elapsed(now, m.stpAt, m.StopTicks) {
		c &^= regmap.ADC_CR_ADSTP | regmap.ADC_CR_ADSTART
	}
	if c&regmap.ADC_CR_ADDIS != 0 && elapsed(now, m.disAt, m.DisableTicks) {
		c &^= regmap.ADC_CR_ADDIS | regmap.ADC_CR_ADEN
	}
	if c&regmap.ADC_CR_ADEN != 0 && !m.readyRaised && elapsed(now, m.enAt, m.ReadyTicks) {
		i |= regmap.ADC_ISR_ADRDY
		m.readyRaised = true
	}
	if c&regmap.ADC_CR_ADSTART != 0 && !m.converted && elapsed(now, m.convAt, m.ConversionTicks) {
		i |= regmap.ADC_ISR_EOC | regmap.ADC_ISR_EOSEQ
		m.converted = true
	}
	cr.Poke(c)
	isr.Poke(i)
}

// RaiseADC sets ADC status bits as if hardware had raised them.
func (s *Silicon) RaiseADC(bits uint32) {
	blk, _ := s.Map.ADC(regmap.ADC1)
	r := Reg(blk.ISR)
	r.Poke(r.Peek() | bits)
}

// ADCStatus returns the ADC status register without side effects.
func (s *Silicon) ADCStatus() uint32 {
	blk, _ := s.Map.ADC(regmap.ADC1)
	return Reg(blk.ISR).Peek()
}

func (s *Silicon) wireUSART(p regmap.Periph) {
	blk, _ := s.Map.USART(p)
	isr, rdr, tdr, icr := Reg(blk.ISR), Reg(blk.RDR), Reg(blk.TDR), Reg(blk.ICR)

	isr.OnRead = func(cur uint32) uint32 {
		if s.TXBusy {
			return cur &^ (regmap.USART_ISR_TXE | regmap.USART_ISR_TC)
		}
		return cur | regmap.USART_ISR_TXE | regmap.USART_ISR_TC
	}
	rdr.OnRead = func(cur uint32) uint32 {
		isr.Poke(isr.Peek() &^ regmap.USART_ISR_RXNE)
		return cur
	}
	tdr.OnWrite = func(_, w uint32) uint32 {
		s.Sent[p] = append(s.Sent[p], byte(w))
		return w
	}
	icr.OnWrite = func(_, w uint32) uint32 {
		if w&regmap.USART_ICR_ORECF != 0 {
			isr.Poke(isr.Peek() &^ regmap.USART_ISR_ORE)
		}
		return 0
	}
}

// Receive presents b in p's receive data register and raises RXNE.
func (s *Silicon) Receive(p regmap.Periph, b byte) {
	blk, _ := s.Map.USART(p)
	Reg(blk.RDR).Poke(uint32(b))
	isr := Reg(blk.ISR)
	isr.Poke(isr.Peek() | regmap.USART_ISR_RXNE)
}

// Overrun raises the overrun flag on p.
func (s *Silicon) Overrun(p regmap.Periph) {
	blk, _ := s.Map.USART(p)
	isr := Reg(blk.ISR)
	isr.Poke(isr.Peek() | regmap.USART_ISR_ORE)
}

// USARTStatus returns p's status register without side effects.
func (s *Silicon) USARTStatus(p regmap.Periph) uint32 {
	blk, _ := s.Map.USART(p)
	return Reg(blk.ISR).Peek()
}
