package vm

import "github.com/go-fv1/fv1emu/pkg/fixedpoint"

// choOne is the CHO flag engine's "unity" constant (ONE = MAX/2) used to
// compute a COMPC-complemented scale.
const choOne = fixedpoint.Max / 2

// execute runs one instruction and returns the extra program-counter
// advance it requires: 0 for every opcode except SKP, which returns its
// skip distance when its condition fires.
func (m *VM) execute(ins *Instruction) int {
	switch ins.Op {
	case OpSof:
		m.sof(ins.S, ins.A)
	case OpAnd:
		m.acc2pacc()
		m.Acc = fixedpoint.And(m.Acc, ins.A)
	case OpOr:
		m.acc2pacc()
		m.Acc = fixedpoint.Or(m.Acc, ins.A)
	case OpXor:
		m.acc2pacc()
		m.Acc = fixedpoint.Xor(m.Acc, ins.A)
	case OpLog:
		m.log(ins.S, ins.A)
	case OpExp:
		m.exp(ins.S, ins.A)
	case OpSkp:
		return m.skp(ins.A, ins.B)
	case OpRdax:
		m.rdax(ins.Reg, ins.S)
	case OpWrax:
		m.wrax(ins.Reg, ins.S)
	case OpMaxx:
		m.maxx(ins.Reg, ins.S)
	case OpMulx:
		m.acc2pacc()
		m.Acc = fixedpoint.Mul(m.Acc, *ins.Reg)
	case OpRdfx:
		m.rdfx(ins.Reg, ins.S)
	case OpWrlx:
		m.wrlx(ins.Reg, ins.S)
	case OpWrhx:
		m.wrhx(ins.Reg, ins.S)
	case OpLdax:
		m.acc2pacc()
		m.Acc = *ins.Reg
	case OpClr:
		m.acc2pacc()
		m.Acc = 0
	case OpNot:
		m.acc2pacc()
		m.Acc = fixedpoint.Not(m.Acc)
	case OpAbsa:
		m.acc2pacc()
		m.Acc = fixedpoint.Abs(m.Acc)
	case OpRda:
		m.rda(ins.A, ins.S)
	case OpRmpa:
		m.rmpa(ins.S)
	case OpWra:
		m.wra(ins.A, ins.S)
	case OpWrap:
		m.wrap(ins.A, ins.S)
	case OpWlds:
		m.wlds(ins.Lfo, ins.A, ins.B)
	case OpWldr:
		m.wldr(ins.Lfo, ins.A, ins.B)
	case OpJam:
		m.jam(ins.Lfo)
	case OpChoRda:
		m.choRda(ins.Lfo, ins.A, ins.B)
	case OpChoSof:
		m.choSof(ins.Lfo, ins.A, ins.B)
	case OpChoRdal:
		m.choRdal(ins.Lfo)
	case OpNop, OpEnd:
		// no-op
	case OpSetConst:
		m.acc2pacc()
		m.Acc = fixedpoint.FromRaw(ins.A)
	case OpAddConst:
		m.acc2pacc()
		m.Acc = fixedpoint.FromRaw(int(m.Acc) + ins.A)
	case OpScaleAcc:
		m.acc2pacc()
		m.Acc = fixedpoint.Mul(m.Acc, ins.S)
	case OpExpRaw:
		m.acc2pacc()
		m.Acc = m.exp2Saturating()
	case OpRdaxAdd:
		m.acc2pacc()
		m.Acc = fixedpoint.FromRaw(int(m.Acc) + int(*ins.Reg))
	case OpWraxStore:
		m.acc2pacc()
		*ins.Reg = m.Acc
	case OpWraxRdax:
		m.acc2pacc()
		*ins.Reg = m.Acc
		m.Acc = fixedpoint.Mul(*ins.Reg2, ins.S)
	}
	return 0
}

func (m *VM) sof(scale fixedpoint.Value, offset int) {
	m.acc2pacc()
	m.Acc = fixedpoint.MulAdd(m.Acc, scale, offset)
}

func (m *VM) log(scale fixedpoint.Value, offset int) {
	m.acc2pacc()
	l := fixedpoint.Log2Magnitude(m.Acc)
	m.Acc = fixedpoint.MulAdd(l, scale, offset)
}

// exp2Saturating is the EXP opcode's internal _EXP(): ACC saturates to
// Max when non-negative, otherwise decays through Exp2Scaled.
func (m *VM) exp2Saturating() fixedpoint.Value {
	if m.Acc >= 0 {
		return fixedpoint.FromRaw(fixedpoint.Max)
	}
	return fixedpoint.Exp2Scaled(m.Acc)
}

func (m *VM) exp(scale fixedpoint.Value, offset int) {
	m.acc2pacc()
	m.Acc = m.exp2Saturating()
	m.Acc = fixedpoint.MulAdd(m.Acc, scale, offset)
}

// skp does not copy ACC to PACC: the skip test itself compares ACC
// against the PACC left by the previous instruction.
func (m *VM) skp(flags, nskip int) int {
	skip := false
	if flags&SkpRun != 0 {
		skip = skip || !m.firstRun
	}
	if flags&SkpZro != 0 {
		skip = skip || m.Acc == 0
	}
	if flags&SkpGez != 0 {
		skip = skip || m.Acc >= 0
	}
	if flags&SkpNeg != 0 {
		skip = skip || m.Acc < 0
	}
	if flags&SkpZrc != 0 {
		skip = skip || fixedpoint.SignBit(m.Acc) != fixedpoint.SignBit(m.Pacc)
	}
	if skip {
		return nskip
	}
	return 0
}

func (m *VM) rdax(reg *fixedpoint.Value, scale fixedpoint.Value) {
	m.acc2pacc()
	m.Acc = fixedpoint.MulAdd(*reg, scale, int(m.Acc))
}

func (m *VM) wrax(reg *fixedpoint.Value, scale fixedpoint.Value) {
	m.acc2pacc()
	*reg = m.Acc
	m.Acc = fixedpoint.Mul(m.Acc, scale)
}

func (m *VM) maxx(reg *fixedpoint.Value, scale fixedpoint.Value) {
	m.acc2pacc()
	t := fixedpoint.Mul(fixedpoint.Abs(*reg), scale)
	a := fixedpoint.Abs(m.Acc)
	if t > a {
		m.Acc = t
	} else {
		m.Acc = a
	}
}

func (m *VM) rdfx(reg *fixedpoint.Value, scale fixedpoint.Value) {
	m.acc2pacc()
	diff := fixedpoint.FromRaw(int(m.Acc) - int(*reg))
	m.Acc = fixedpoint.MulAdd(diff, scale, int(*reg))
}

// wrlx and wrhx must read PACC before acc2pacc overwrites it: the
// coefficient blend is against the PACC left by the PREVIOUS
// instruction, not the one acc2pacc is about to produce.
func (m *VM) wrlx(reg *fixedpoint.Value, scale fixedpoint.Value) {
	pacc0 := m.Pacc
	m.acc2pacc()
	*reg = m.Acc
	diff := fixedpoint.FromRaw(int(pacc0) - int(m.Acc))
	m.Acc = fixedpoint.MulAdd(diff, scale, int(pacc0))
}

func (m *VM) wrhx(reg *fixedpoint.Value, scale fixedpoint.Value) {
	pacc0 := m.Pacc
	m.acc2pacc()
	*reg = m.Acc
	m.Acc = fixedpoint.MulAdd(m.Acc, scale, int(pacc0))
}

func (m *VM) rda(addr int, scale fixedpoint.Value) {
	m.acc2pacc()
	m.Lr = fixedpoint.FromRaw(m.Delay.Read(addr))
	m.Acc = fixedpoint.MulAdd(m.Lr, scale, int(m.Acc))
}

func (m *VM) rmpa(scale fixedpoint.Value) {
	m.acc2pacc()
	addr := int(m.Regs[AddrPtr]) >> 8
	m.Lr = fixedpoint.FromRaw(m.Delay.Read(addr))
	m.Acc = fixedpoint.FromRaw(int(m.Acc) + int(fixedpoint.Mul(m.Lr, scale)))
}

func (m *VM) wra(addr int, scale fixedpoint.Value) {
	m.acc2pacc()
	m.Delay.Write(addr, int(m.Acc))
	m.Acc = fixedpoint.Mul(m.Acc, scale)
}

func (m *VM) wrap(addr int, scale fixedpoint.Value) {
	m.acc2pacc()
	m.Delay.Write(addr, int(m.Acc))
	m.Acc = fixedpoint.FromRaw(int(fixedpoint.Mul(m.Acc, scale)) + int(m.Lr))
}

func (m *VM) wlds(lfo, freq, amp int) {
	if lfo == 0 {
		m.Regs[Sin0Rate] = fixedpoint.FromRaw(freq << 14)
		m.Regs[Sin0Range] = fixedpoint.FromRaw(amp << 8)
		m.Sin0.Jam()
	} else {
		m.Regs[Sin1Rate] = fixedpoint.FromRaw(freq << 14)
		m.Regs[Sin1Range] = fixedpoint.FromRaw(amp << 8)
		m.Sin1.Jam()
	}
}

func (m *VM) wldr(lfo, freq, ampIdx int) {
	amp := ampIdx << 21
	if lfo == 0 {
		m.Regs[Rmp0Rate] = fixedpoint.FromRaw(freq << 8)
		m.Regs[Rmp0Range] = fixedpoint.FromRaw(amp)
		m.Rmp0.Jam()
	} else {
		m.Regs[Rmp1Rate] = fixedpoint.FromRaw(freq << 8)
		m.Regs[Rmp1Range] = fixedpoint.FromRaw(amp)
		m.Rmp1.Jam()
	}
}

func (m *VM) jam(lfo int) {
	if lfo == 0 {
		m.Rmp0.Jam()
	} else {
		m.Rmp1.Jam()
	}
}

// cho evaluates the shared CHO selection logic: pick the addressed LFO,
// derive its raw lfoval and the scale CHO SOF/RDA will multiply by.
// For the ramp branch, COMPA/NA modify lfoval before scale is derived
// from it; for the sine branch, COMPA only negates the value CHO RDA
// uses for address offsetting, after scale has already been taken from
// the unnegated value. This asymmetry matches the FV-1 hardware and
// must not be "simplified" away.
func (m *VM) cho(lfo, flags int) (lfoval int, scale fixedpoint.Value) {
	switch lfo {
	case ChoLfoSin0, ChoLfoSin1:
		s := &m.Sin0
		if lfo == ChoLfoSin1 {
			s = &m.Sin1
		}
		lv := int(s.Value(flags&ChoCos != 0))
		if flags&ChoCompc != 0 {
			scale = fixedpoint.FromRaw(choOne - lv)
		} else {
			scale = fixedpoint.FromRaw(lv)
		}
		if flags&ChoCompa != 0 {
			lv = -lv
		}
		lfoval = lv
	case ChoLfoRmp0, ChoLfoRmp1:
		r := &m.Rmp0
		if lfo == ChoLfoRmp1 {
			r = &m.Rmp1
		}
		rng := r.Range()
		lv := r.Value(flags&ChoRptr2 != 0)
		if flags&ChoCompa != 0 {
			lv = rng - lv
		}
		if flags&ChoNa != 0 {
			lv = r.XFade()
		}
		if flags&ChoCompc != 0 {
			scale = fixedpoint.FromRaw(choOne - lv)
		} else {
			scale = fixedpoint.FromRaw(lv)
		}
		lfoval = lv
	}
	return lfoval, scale
}

func (m *VM) choRda(lfo, flags, addr int) {
	lfoval, scale := m.cho(lfo, flags)
	if flags&ChoNa == 0 {
		addr += lfoval >> 10
	}
	m.rda(addr, scale)
}

func (m *VM) choSof(lfo, flags, offset int) {
	_, scale := m.cho(lfo, flags)
	m.sof(scale, offset)
}

func (m *VM) choRdal(lfo int) {
	m.acc2pacc()
	var v fixedpoint.Value
	switch lfo {
	case ChoLfoSin0:
		v = m.Sin0.Sin()
	case ChoLfoSin1:
		v = m.Sin1.Sin()
	case ChoLfoRmp0:
		v = fixedpoint.FromRaw(m.Rmp0.Value(false))
	case ChoLfoRmp1:
		v = fixedpoint.FromRaw(m.Rmp1.Value(false))
	case ChoLfoCos0, 4:
		v = m.Sin0.Cos()
	case ChoLfoCos1, 5:
		v = m.Sin1.Cos()
	}
	m.Acc = v
}
