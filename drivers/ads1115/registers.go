// Package ads1115 provides constants for register pointers and bitfields of
// the ADS1113/4/5 16-bit I2C ADC.
package ads1115

const (
	// 7-bit I2C addresses, selected by what the ADDR pin is tied to.
	AddressGND     = 0x48
	AddressVDD     = 0x49
	AddressSDA     = 0x4A
	AddressSCL     = 0x4B
	AddressDefault = AddressGND

	// --- Register pointers (16-bit, MSB first on the wire) ---
	RegConversion = 0x00
	RegConfig     = 0x01
	RegLoThresh   = 0x02
	RegHiThresh   = 0x03

	// Power-on value of the config register.
	configReset = 0x8583
	// single-ended AIN0, ±2.048 V, continuous, 128 SPS, comparator off
	configInit = 0xC483
)

// field is a bit range named by its most significant bit and width.
type field struct {
	high, length uint8
}

var (
	fieldOS       = field{15, 1}
	fieldMux      = field{14, 3}
	fieldGain     = field{11, 3}
	fieldMode     = field{8, 1}
	fieldRate     = field{7, 3}
	fieldCompMode = field{4, 1}
	fieldCompPol  = field{3, 1}
	fieldCompLat  = field{2, 1}
	fieldCompQue  = field{1, 2}
	fieldThreshHi = field{15, 1} // MSB of a threshold register
)

func (f field) max() uint16 { return 1<<f.length - 1 }

// Mux selects the inputs of a conversion.
type Mux uint8

const (
	MuxP0N1 Mux = iota // differential AIN0 - AIN1 (power-on default)
	MuxP0N3
	MuxP1N3
	MuxP2N3
	MuxP0GND // single-ended AIN0
	MuxP1GND
	MuxP2GND
	MuxP3GND
)

// SingleEnded returns the mux code measuring AINn against GND.
func SingleEnded(n uint8) (Mux, bool) {
	if n > 3 {
		return 0, false
	}
	return MuxP0GND + Mux(n), true
}

// Gain is the PGA setting, named by its full-scale range.
type Gain uint8

const (
	Gain6144mV Gain = iota
	Gain4096mV
	Gain2048mV // power-on default
	Gain1024mV
	Gain512mV
	Gain256mV
	Gain256mVB
	Gain256mVC
)

// Mode is the operating mode field.
type Mode uint8

const (
	ModeContinuous Mode = 0
	ModeSingleShot Mode = 1 // power-on default
)

// Rate is the data rate in samples per second.
type Rate uint8

const (
	Rate8 Rate = iota
	Rate16
	Rate32
	Rate64
	Rate128 // power-on default
	Rate250
	Rate475
	Rate860
)

const (
	CompHysteresis = 0
	CompWindow     = 1

	CompActiveLow  = 0
	CompActiveHigh = 1

	CompNonLatching = 0
	CompLatching    = 1

	CompQueue1       = 0
	CompQueue2       = 1
	CompQueue4       = 2
	CompQueueDisable = 3
)
