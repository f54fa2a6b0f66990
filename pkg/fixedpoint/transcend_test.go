package fixedpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog2MagnitudeZero(t *testing.T) {
	assert.Equal(t, Value(-Max), Log2Magnitude(0))
}

func TestLog2MagnitudeOfUnity(t *testing.T) {
	// log2(|Max|/F) ~= log2(~1.0) ~= 0, scaled by 1/16 -> ~0.
	got := Log2Magnitude(FromRaw(Max))
	assert.InDelta(t, 0, got.ToFloat(), 1e-3)
}

func TestLog2MagnitudeIgnoresSign(t *testing.T) {
	pos := Log2Magnitude(FromFloat(0.5))
	neg := Log2Magnitude(FromFloat(-0.5))
	assert.Equal(t, pos, neg)
}

func TestLog2MagnitudeMonotonic(t *testing.T) {
	small := Log2Magnitude(FromFloat(0.1))
	big := Log2Magnitude(FromFloat(0.8))
	assert.Less(t, int(small), int(big), "log2 magnitude must grow with |v|")
}

func TestExp2ScaledInverseOfLog(t *testing.T) {
	// EXP's negative branch is the inverse mapping of Log2Magnitude:
	// Exp2Scaled(Log2Magnitude(v)) should recover |v| approximately.
	v := FromFloat(0.6)
	l := Log2Magnitude(v)
	got := Exp2Scaled(l)
	assert.InDelta(t, v.ToFloat(), got.ToFloat(), 0.02)
}

func TestExp2ScaledAtZero(t *testing.T) {
	// Exp2Scaled(0) = 2^0 = 1.0, which saturates to Max in Q1.23.
	got := Exp2Scaled(0)
	assert.Equal(t, Value(Max), got)
}

func TestExp2ScaledDecaysTowardZero(t *testing.T) {
	got := Exp2Scaled(FromRaw(Min)) // v = -1.0 -> 2^-16, tiny
	assert.Less(t, got.ToFloat(), 0.001)
	assert.GreaterOrEqual(t, got.ToFloat(), 0.0)
}
