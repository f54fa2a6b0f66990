package vm

import (
	"testing"

	"github.com/go-fv1/fv1emu/pkg/fixedpoint"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func newBoundSinLFO(rate, rng fixedpoint.Value) (*SinLFO, *fixedpoint.Value, *fixedpoint.Value) {
	r, g := rate, rng
	l := &SinLFO{}
	l.Init(&r, &g)
	return l, &r, &g
}

func TestSinLFOJamResetsState(t *testing.T) {
	l, _, _ := newBoundSinLFO(fixedpoint.FromFloat(0.01), fixedpoint.FromRaw(fixedpoint.Max))
	for i := 0; i < 50; i++ {
		l.Tick()
	}
	l.Jam()
	assert.Equal(t, fixedpoint.Value(0), l.Sin())
	assert.InDelta(t, -1.0, l.Cos().ToFloat(), 1e-3)
}

func TestSinLFOEnergyStaysBounded(t *testing.T) {
	// A coupled-form oscillator with a small rate coefficient traces an
	// approximately constant-energy circle: s^2+c^2 should not drift far
	// from its initial value over a modest number of ticks.
	rate := fixedpoint.FromFloat(0.001)
	rng := fixedpoint.FromRaw(fixedpoint.Max)
	l, _, _ := newBoundSinLFO(rate, rng)

	energy := func() float64 {
		s := l.Sin().ToFloat()
		c := l.Cos().ToFloat()
		return s*s + c*c
	}

	initial := energy()
	for i := 0; i < 2000; i++ {
		l.Tick()
	}
	final := energy()
	assert.InDelta(t, initial, final, 0.05, "coupled-form oscillator energy must stay close to its initial value")
}

func TestSinLFOCosStartsAtFullNegativeAmplitude(t *testing.T) {
	rng := fixedpoint.FromRaw(fixedpoint.Max)
	l, _, _ := newBoundSinLFO(fixedpoint.FromFloat(0.01), rng)
	assert.InDelta(t, -1.0, l.Cos().ToFloat(), 1e-3)
	assert.InDelta(t, 0.0, l.Sin().ToFloat(), 1e-3)
}

func TestSinLFOValueSelectsSinOrCos(t *testing.T) {
	l, _, _ := newBoundSinLFO(fixedpoint.FromFloat(0.02), fixedpoint.FromRaw(fixedpoint.Max))
	l.Tick()
	assert.Equal(t, l.Sin(), l.Value(false))
	assert.Equal(t, l.Cos(), l.Value(true))
}

func newBoundRampLFO(rate, rng fixedpoint.Value) (*RampLFO, *fixedpoint.Value, *fixedpoint.Value) {
	r, g := rate, rng
	l := &RampLFO{}
	l.Init(&r, &g)
	return l, &r, &g
}

func TestRampLFORangeDecodesTopIndexBits(t *testing.T) {
	tests := []struct {
		idx  int
		want int
	}{
		{0, rampAmplitudes[0]},
		{1, rampAmplitudes[1]},
		{2, rampAmplitudes[2]},
		{3, rampAmplitudes[3]},
	}
	for _, tc := range tests {
		rngReg := fixedpoint.FromRaw(tc.idx << 21)
		l, _, _ := newBoundRampLFO(fixedpoint.FromFloat(0.1), rngReg)
		assert.Equal(t, tc.want, l.Range())
	}
}

func TestRampLFOPositionStaysWithinRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.IntRange(0, 3).Draw(t, "idx")
		freq := rapid.IntRange(0, 0xFFFFF).Draw(t, "freq")
		ticks := rapid.IntRange(0, 500).Draw(t, "ticks")

		rngReg := fixedpoint.FromRaw(idx << 21)
		rateReg := fixedpoint.FromRaw(freq << 12)
		l, _, _ := newBoundRampLFO(rateReg, rngReg)

		rng := l.Range()
		for i := 0; i < ticks; i++ {
			l.Tick()
			assert.GreaterOrEqual(t, l.pos, 0)
			assert.LessOrEqual(t, l.pos, rng)
		}
	})
}

func TestRampLFOJamResetsPosition(t *testing.T) {
	l, _, _ := newBoundRampLFO(fixedpoint.FromFloat(0.1), fixedpoint.FromRaw(0<<21))
	for i := 0; i < 10; i++ {
		l.Tick()
	}
	l.Jam()
	assert.Equal(t, 0, l.pos)
}

func TestRampLFOValuePtr2HalfPeriodAhead(t *testing.T) {
	rngReg := fixedpoint.FromRaw(0 << 21)
	l, _, _ := newBoundRampLFO(fixedpoint.FromFloat(0.1), rngReg)
	rng := l.Range()
	l.pos = 100
	got := l.Value(true)
	want := (100 + rng/2) & rng
	assert.Equal(t, want, got)
}

func TestRampLFOXFadeIsTriangular(t *testing.T) {
	rngReg := fixedpoint.FromRaw(0 << 21)
	l, _, _ := newBoundRampLFO(fixedpoint.FromFloat(0.1), rngReg)
	rng := l.Range()
	half := rng >> 1

	l.pos = 0
	assert.Equal(t, 0, l.XFade())

	l.pos = half
	atHalf := l.XFade()

	l.pos = rng
	atEnd := l.XFade()
	assert.LessOrEqual(t, atEnd, atHalf, "crossfade must fall back down past the midpoint")
}
