// Package conv formats integers into caller-owned buffers without fmt or
// strconv, for firmware output paths.
package conv

// AppendUint appends the base-10 form of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// AppendInt appends the base-10 form of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}

// AppendMilli appends n/1000 with three decimals, e.g. 25312 -> "25.312".
func AppendMilli(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		n = -n
	}
	dst = AppendUint(dst, uint64(n/1000))
	frac := n % 1000
	return append(dst, '.', byte('0'+frac/100), byte('0'+frac/10%10), byte('0'+frac%10))
}

// AppendHex16 appends n as four uppercase hex digits.
func AppendHex16(dst []byte, n uint16) []byte {
	const hexd = "0123456789ABCDEF"
	return append(dst, hexd[n>>12&0xF], hexd[n>>8&0xF], hexd[n>>4&0xF], hexd[n&0xF])
}
