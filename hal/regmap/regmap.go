// Package regmap binds logical peripheral instances to their register
// blocks, interrupt lines and clock-enable bits.
//
// The register layout is a build-time choice. Exactly one binding file is
// compiled in and assigns Selected during package initialisation; drivers
// never branch on the MCU family at run time.
package regmap

// Periph identifies a logical peripheral instance.
type Periph uint8

const (
	ADC1 Periph = iota + 1
	ADC2
	ADC3
	USART1
	USART2
	USART3
	USART4
	USART5
	USART6
)

func (p Periph) String() string {
	switch p {
	case ADC1:
		return "adc1"
	case ADC2:
		return "adc2"
	case ADC3:
		return "adc3"
	case USART1:
		return "usart1"
	case USART2:
		return "usart2"
	case USART3:
		return "usart3"
	case USART4:
		return "usart4"
	case USART5:
		return "usart5"
	case USART6:
		return "usart6"
	}
	return "unknown"
}

// Port identifies a GPIO port.
type Port uint8

const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortE
	PortF
)

func (p Port) String() string {
	if p > PortF {
		return "gpio?"
	}
	return "gpio" + string(rune('a'+p))
}

// Bus names the clock-enable register a Clock bit lives in.
type Bus uint8

const (
	AHB Bus = iota
	APB1
	APB2
)

// Clock is one clock-enable bit.
type Clock struct {
	Bus Bus
	Bit uint32
}

// IRQ is an interrupt-controller line number.
type IRQ uint32

// Map is the register map of one MCU family.
type Map interface {
	Family() string
	ADC(p Periph) (*ADCBlock, bool)
	ADCCommon() *ADCCommonBlock
	USART(p Periph) (*USARTBlock, bool)
	GPIO(port Port) (*GPIOBlock, bool)
	RCC() *RCCBlock
	IRQ(p Periph) (IRQ, bool)
	Clock(p Periph) (Clock, bool)
	PortClock(port Port) (Clock, bool)
	// ADCChannels is the number of ADC input channels (external and internal).
	ADCChannels() uint8
	// ADCInput is the pin wired to external ADC channel ch.
	ADCInput(ch uint8) (port Port, num uint8, ok bool)
	// SystemClockHz is the peripheral clock the USART baud divider is based on.
	SystemClockHz() uint32
}

// Selected is the register map chosen at build time.
var Selected Map
