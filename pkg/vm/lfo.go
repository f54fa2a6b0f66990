package vm

import "github.com/go-fv1/fv1emu/pkg/fixedpoint"

// SinLFO is a coupled-form (state-variable) sine/cosine oscillator. Its
// rate and range are read live from the two register-file cells that
// back it, so changing those registers at runtime (e.g. via WLDS)
// retunes the oscillator on the next tick.
type SinLFO struct {
	s, c fixedpoint.Value

	rate, rng *fixedpoint.Value
}

// Init binds the oscillator to its rate/range register cells and jams it
// to its reset state.
func (l *SinLFO) Init(rate, rng *fixedpoint.Value) {
	l.rate = rate
	l.rng = rng
	l.Jam()
}

// Jam resets the oscillator to (sin, cos) = (0, -(Max)), i.e. cos at full
// negative amplitude.
func (l *SinLFO) Jam() {
	l.s = 0
	l.c = fixedpoint.FromRaw(-fixedpoint.Max)
}

// Tick advances the oscillator by one sample using coefficient
// k = rate >> 8.
func (l *SinLFO) Tick() {
	k := fixedpoint.FromRaw(int(*l.rate) >> 8)
	l.c = fixedpoint.FromRaw(int(l.c) + int(fixedpoint.Mul(l.s, k)))
	l.s = fixedpoint.FromRaw(int(l.s) - int(fixedpoint.Mul(l.c, k)))
}

// Sin returns the current sine output scaled by the range register.
func (l *SinLFO) Sin() fixedpoint.Value {
	return fixedpoint.Mul(l.s, *l.rng)
}

// Cos returns the current cosine output scaled by the range register.
func (l *SinLFO) Cos() fixedpoint.Value {
	return fixedpoint.Mul(l.c, *l.rng)
}

// Value returns Cos() if cos is true, else Sin() — the CHO RDA/RDAL
// selector between the two phases of one sine LFO.
func (l *SinLFO) Value(cos bool) fixedpoint.Value {
	if cos {
		return l.Cos()
	}
	return l.Sin()
}

// rampAmplitudes are the four periods selectable by the top 2 bits of a
// ramp LFO's range register (bits 21-22), indexed 0..3 for
// {4096, 2048, 1024, 512}.
var rampAmplitudes = [4]int{0x3FFFFF, 0x1FFFFF, 0x0FFFFF, 0x07FFFF}

// RampLFO is a wrapping position counter with a programmable period
// selected from a small power-of-two set.
type RampLFO struct {
	pos int

	rate, rng *fixedpoint.Value
}

// Init binds the oscillator to its rate/range register cells and jams it.
func (l *RampLFO) Init(rate, rng *fixedpoint.Value) {
	l.rate = rate
	l.rng = rng
	l.Jam()
}

// Jam resets the position counter to zero.
func (l *RampLFO) Jam() {
	l.pos = 0
}

// Range decodes the current period from the top bits of the range
// register.
func (l *RampLFO) Range() int {
	idx := int(*l.rng) >> 21
	return rampAmplitudes[idx&0x3]
}

// Tick advances the position backward by rate>>12, wrapped to the
// current range.
func (l *RampLFO) Tick() {
	freq := int(*l.rate) >> 12
	l.pos = (l.pos - freq) & l.Range()
}

// Value returns the raw ramp position, or its half-period-advanced
// twin when ptr2 is set (CHO's RPTR2 flag).
func (l *RampLFO) Value(ptr2 bool) int {
	if !ptr2 {
		return l.pos
	}
	rng := l.Range()
	return (l.pos + rng/2) & rng
}

// XFade computes the triangular crossfade used by CHO's NA flag: rises
// from 0 to the half-period then falls back, shifted into the full
// Q1.23 range by the same amplitude index used to decode Range.
func (l *RampLFO) XFade() int {
	rng := l.Range()
	half := rng >> 1
	xfade := l.pos
	if l.pos > half {
		xfade = rng - l.pos
	}
	return xfade << (int(*l.rng) >> 21)
}
