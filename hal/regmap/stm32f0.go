package regmap

import "mcuperiph-go/x/mmio"

// STM32F0 register blocks. Field order follows the reference manual
// (RM0091); bit positions below must match it exactly.

type ADCBlock struct {
	ISR, IER, CR, CFGR1, CFGR2, SMPR, TR, CHSELR, DR mmio.Register32
}

type ADCCommonBlock struct {
	CCR mmio.Register32
}

type USARTBlock struct {
	CR1, CR2, CR3, BRR, GTPR, RTOR, RQR, ISR, ICR, RDR, TDR mmio.Register32
}

type GPIOBlock struct {
	MODER, OTYPER, OSPEEDR, PUPDR, IDR, ODR, BSRR, LCKR, AFRL, AFRH, BRR mmio.Register32
}

type RCCBlock struct {
	CR, CFGR, CIR, APB2RSTR, APB1RSTR, AHBENR, APB2ENR, APB1ENR, BDCR, CSR, AHBRSTR, CFGR2, CFGR3, CR2 mmio.Register32
}

// ADC_ISR / ADC_IER
const (
	ADC_ISR_ADRDY = 1 << 0
	ADC_ISR_EOSMP = 1 << 1
	ADC_ISR_EOC   = 1 << 2
	ADC_ISR_EOSEQ = 1 << 3
	ADC_ISR_OVR   = 1 << 4
	ADC_ISR_AWD   = 1 << 7

	ADC_IER_ADRDYIE = 1 << 0
	ADC_IER_EOSMPIE = 1 << 1
	ADC_IER_EOCIE   = 1 << 2
	ADC_IER_EOSEQIE = 1 << 3
	ADC_IER_OVRIE   = 1 << 4
	ADC_IER_AWDIE   = 1 << 7
)

// ADC_CR
const (
	ADC_CR_ADEN    = 1 << 0
	ADC_CR_ADDIS   = 1 << 1
	ADC_CR_ADSTART = 1 << 2
	ADC_CR_ADSTP   = 1 << 4
	ADC_CR_ADCAL   = 1 << 31
)

// ADC_CFGR1 / ADC_CFGR2 / ADC_SMPR
const (
	ADC_CFGR1_DMAEN  = 1 << 0
	ADC_CFGR1_DMACFG = 1 << 1
	ADC_CFGR1_CONT   = 1 << 13

	ADC_CFGR2_CKMODE_Pos = 30
	ADC_CFGR2_CKMODE_Msk = 0x3

	ADC_SMPR_SMP_Msk = 0x7
)

// ADC_CCR
const (
	ADC_CCR_VREFEN = 1 << 22
	ADC_CCR_TSEN   = 1 << 23
	ADC_CCR_VBATEN = 1 << 24
)

// USART_CR1 / USART_ISR / USART_ICR
const (
	USART_CR1_UE     = 1 << 0
	USART_CR1_RE     = 1 << 2
	USART_CR1_TE     = 1 << 3
	USART_CR1_RXNEIE = 1 << 5
	USART_CR1_TCIE   = 1 << 6
	USART_CR1_TXEIE  = 1 << 7

	USART_ISR_ORE  = 1 << 3
	USART_ISR_RXNE = 1 << 5
	USART_ISR_TC   = 1 << 6
	USART_ISR_TXE  = 1 << 7

	USART_ICR_ORECF = 1 << 3
)

// RCC_CR2 and enable bits.
const (
	RCC_CR2_HSI14ON  = 1 << 0
	RCC_CR2_HSI14RDY = 1 << 1

	RCC_AHBENR_IOPAEN = 1 << 17
	RCC_AHBENR_IOPBEN = 1 << 18
	RCC_AHBENR_IOPCEN = 1 << 19
	RCC_AHBENR_IOPDEN = 1 << 20
	RCC_AHBENR_IOPFEN = 1 << 22

	RCC_APB2ENR_ADCEN    = 1 << 9
	RCC_APB2ENR_USART1EN = 1 << 14
	RCC_APB1ENR_USART2EN = 1 << 17
)

// GPIO field encodings.
const (
	GPIO_MODE_INPUT  = 0x0
	GPIO_MODE_OUTPUT = 0x1
	GPIO_MODE_AF     = 0x2
	GPIO_MODE_ANALOG = 0x3
)

// Base addresses and interrupt lines (STM32F04x/F07x).
const (
	baseGPIOA     = 0x48000000
	baseGPIOB     = 0x48000400
	baseGPIOC     = 0x48000800
	baseGPIOD     = 0x48000C00
	baseGPIOF     = 0x48001400
	baseRCC       = 0x40021000
	baseADC1      = 0x40012400
	baseADCCommon = 0x40012708
	baseUSART1    = 0x40013800
	baseUSART2    = 0x40004400

	irqADC1   IRQ = 12
	irqUSART1 IRQ = 27
	irqUSART2 IRQ = 28

	adcChannels = 19
	sysClockHz  = 8_000_000
)

// STM32F0 is the register map of the STM32F0 family.
type STM32F0 struct {
	adc1      ADCBlock
	adcCommon ADCCommonBlock
	usart1    USARTBlock
	usart2    USARTBlock
	gpio      [PortF + 1]*GPIOBlock
	rcc       RCCBlock
}

var _ Map = (*STM32F0)(nil)

func (m *STM32F0) Family() string { return "stm32f0" }

func (m *STM32F0) ADC(p Periph) (*ADCBlock, bool) {
	if p == ADC1 {
		return &m.adc1, true
	}
	return nil, false
}

func (m *STM32F0) ADCCommon() *ADCCommonBlock { return &m.adcCommon }

func (m *STM32F0) USART(p Periph) (*USARTBlock, bool) {
	switch p {
	case USART1:
		return &m.usart1, true
	case USART2:
		return &m.usart2, true
	}
	return nil, false
}

func (m *STM32F0) GPIO(port Port) (*GPIOBlock, bool) {
	if port > PortF || m.gpio[port] == nil {
		return nil, false
	}
	return m.gpio[port], true
}

func (m *STM32F0) RCC() *RCCBlock { return &m.rcc }

func (m *STM32F0) IRQ(p Periph) (IRQ, bool) {
	switch p {
	case ADC1:
		return irqADC1, true
	case USART1:
		return irqUSART1, true
	case USART2:
		return irqUSART2, true
	}
	return 0, false
}

func (m *STM32F0) Clock(p Periph) (Clock, bool) {
	switch p {
	case ADC1:
		return Clock{Bus: APB2, Bit: RCC_APB2ENR_ADCEN}, true
	case USART1:
		return Clock{Bus: APB2, Bit: RCC_APB2ENR_USART1EN}, true
	case USART2:
		return Clock{Bus: APB1, Bit: RCC_APB1ENR_USART2EN}, true
	}
	return Clock{}, false
}

func (m *STM32F0) PortClock(port Port) (Clock, bool) {
	switch port {
	case PortA:
		return Clock{Bus: AHB, Bit: RCC_AHBENR_IOPAEN}, true
	case PortB:
		return Clock{Bus: AHB, Bit: RCC_AHBENR_IOPBEN}, true
	case PortC:
		return Clock{Bus: AHB, Bit: RCC_AHBENR_IOPCEN}, true
	case PortD:
		return Clock{Bus: AHB, Bit: RCC_AHBENR_IOPDEN}, true
	case PortF:
		return Clock{Bus: AHB, Bit: RCC_AHBENR_IOPFEN}, true
	}
	return Clock{}, false
}

func (m *STM32F0) ADCChannels() uint8    { return adcChannels }

// ADCInput: IN0..7 on PA0..7, IN8..9 on PB0..1, IN10..15 on PC0..5.
func (m *STM32F0) ADCInput(ch uint8) (Port, uint8, bool) {
	switch {
	case ch < 8:
		return PortA, ch, true
	case ch < 10:
		return PortB, ch - 8, true
	case ch < 16:
		return PortC, ch - 10, true
	}
	return 0, 0, false
}
func (m *STM32F0) SystemClockHz() uint32 { return sysClockHz }
