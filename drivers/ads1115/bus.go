package ads1115

// I2C 16-bit register operations (big-endian: HIGH then LOW).
//
// The part has no combined addressed read. A read writes the pointer
// register on its own and then reads two bytes from whatever the pointer
// selects.

func (d *Device) point(reg byte) error {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], nil); err != nil {
		d.cached = false
		return err
	}
	d.reg = reg
	return nil
}

func (d *Device) readWord(reg byte) (uint16, error) {
	if err := d.point(reg); err != nil {
		return 0, err
	}
	if err := d.i2c.Tx(d.addr, nil, d.r[:2]); err != nil {
		d.cached = false
		return 0, err
	}
	d.val = uint16(d.r[0])<<8 | uint16(d.r[1])
	d.cached = true
	return d.val, nil
}

func (d *Device) writeWord(reg byte, val uint16) error {
	d.w[0] = reg
	d.w[1] = byte(val >> 8) // high
	d.w[2] = byte(val)      // low
	if err := d.i2c.Tx(d.addr, d.w[:3], nil); err != nil {
		d.cached = false
		return err
	}
	d.reg, d.val, d.cached = reg, val, true
	return nil
}

// Cached returns the last register addressed and the value last read from
// or written to it.
func (d *Device) Cached() (reg byte, val uint16, ok bool) {
	return d.reg, d.val, d.cached
}
