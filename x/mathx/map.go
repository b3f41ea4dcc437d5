package mathx

// MapI32 maps x linearly through the two points (inA,outA) and (inB,outB)
// with 64-bit intermediates. Unlike a range map it does not clamp: inputs
// outside [inA,inB] extrapolate along the same line.
func MapI32(x, inA, inB, outA, outB int32) int32 {
	if inA == inB {
		return outA
	}
	num := int64(x-inA) * int64(outB-outA)
	return outA + int32(num/int64(inB-inA))
}
