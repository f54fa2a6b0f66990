package fixedpoint

import "math"

// Log2Magnitude approximates log2(|v|), scaled by 1/16 per the FV-1's LOG
// instruction convention (SPIN silicon compresses the log output by 16 so
// it fits the Q1.23 field across the chip's useful dynamic range).
// log2(0) is defined as -(Max), matching the hardware's behavior at the
// bottom of its dynamic range.
func Log2Magnitude(v Value) Value {
	if v == 0 {
		return -Max
	}
	mag := Abs(v)
	return FromFloat(math.Log2(mag.ToFloat()) / 16.0)
}

// Exp2Scaled approximates 2^(16*v) for v in [-1, 0), the inverse of
// Log2Magnitude's scaling, used by the EXP instruction's negative branch.
func Exp2Scaled(v Value) Value {
	return FromFloat(math.Exp2(v.ToFloat() * 16.0))
}
