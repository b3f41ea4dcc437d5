// Package mmio describes 32-bit memory-mapped registers.
//
// Register32 has the method set of TinyGo's runtime/volatile.Register32, so a
// *volatile.Register32 placed over a peripheral's base address satisfies it
// on the target. Reg is a plain in-memory register with optional hooks; host
// builds and tests use it in place of silicon.
package mmio

// Register32 is one 32-bit hardware register.
type Register32 interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	HasBits(value uint32) bool
	ReplaceBits(value uint32, mask uint32, pos uint8)
}

// Reg is an in-memory Register32.
//
// OnRead runs before every read and may change the stored value (status
// bits raised by hardware). OnWrite receives the stored and written values
// and returns what is stored (write-1-to-clear, self-clearing bits).
type Reg struct {
	v       uint32
	OnRead  func(cur uint32) uint32
	OnWrite func(cur, written uint32) uint32

	// Writes counts every store through the Register32 methods.
	Writes int
}

func (r *Reg) Get() uint32 {
	if r.OnRead != nil {
		r.v = r.OnRead(r.v)
	}
	return r.v
}

func (r *Reg) Set(value uint32) {
	r.Writes++
	if r.OnWrite != nil {
		value = r.OnWrite(r.v, value)
	}
	r.v = value
}

func (r *Reg) SetBits(value uint32)   { r.Set(r.Get() | value) }
func (r *Reg) ClearBits(value uint32) { r.Set(r.Get() &^ value) }
func (r *Reg) HasBits(value uint32) bool {
	return r.Get()&value != 0
}

func (r *Reg) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}

// Peek returns the stored value without running OnRead.
func (r *Reg) Peek() uint32 { return r.v }

// Poke stores v without running OnWrite or counting a write.
func (r *Reg) Poke(v uint32) { r.v = v }
