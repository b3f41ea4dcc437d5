//go:build tinygo && stm32f0

package adc

import (
	"runtime/volatile"
	"unsafe"
)

// RM0091 A.7.16: TS_CAL1 and TS_CAL2 in system memory.
const (
	tsCal30Addr  = 0x1FFFF7B8
	tsCal110Addr = 0x1FFFF7C2
)

func tempCalibration() (uint16, uint16) {
	c30 := (*volatile.Register16)(unsafe.Pointer(uintptr(tsCal30Addr)))
	c110 := (*volatile.Register16)(unsafe.Pointer(uintptr(tsCal110Addr)))
	return c30.Get(), c110.Get()
}
