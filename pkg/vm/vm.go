// Package vm implements the FV-1 virtual machine: its register file,
// delay memory, four LFOs, and the per-sample instruction dispatch loop
// that ties them together.
package vm

import "github.com/go-fv1/fv1emu/pkg/fixedpoint"

// VM is one instance of the FV-1 execution core. Zero value is not
// ready to use; call New.
type VM struct {
	Acc, Pacc fixedpoint.Value
	Lr        fixedpoint.Value // latch register: last value read from delay memory

	Regs [NumRegisters]fixedpoint.Value
	Delay DelayMemory

	Sin0, Sin1 SinLFO
	Rmp0, Rmp1 RampLFO

	firstRun bool
	prog     *Program
}

// New returns a freshly reset VM with its LFOs bound to their register
// cells.
func New() *VM {
	m := &VM{}
	m.Sin0.Init(&m.Regs[Sin0Rate], &m.Regs[Sin0Range])
	m.Sin1.Init(&m.Regs[Sin1Rate], &m.Regs[Sin1Range])
	m.Rmp0.Init(&m.Regs[Rmp0Rate], &m.Regs[Rmp0Range])
	m.Rmp1.Init(&m.Regs[Rmp1Rate], &m.Regs[Rmp1Range])
	m.Reset()
	return m
}

// LoadProgram installs p as the program to run each frame and resets
// run state (ACC/PACC, general registers, firstRun) the way loading a
// new effect onto real FV-1 hardware does. LFO phase and the delay line
// are left untouched.
func (m *VM) LoadProgram(p *Program) {
	m.prog = p
	m.Reset()
}

// Reset clears ACC, PACC, and the 32 general-purpose registers, and
// re-arms firstRun for the next Frame call.
func (m *VM) Reset() {
	m.firstRun = true
	m.Acc = 0
	m.Pacc = 0
	for i := Reg0; i <= Reg31; i++ {
		m.Regs[i] = 0
	}
}

// Frame runs one sample through the loaded program: stage the ADC and
// pot inputs, execute the program to completion, advance the delay
// line and all four LFOs by one tick, and return the DAC outputs.
func (m *VM) Frame(inL, inR, pot0, pot1, pot2 float64) (outL, outR float64) {
	m.Regs[AdcL] = fixedpoint.FromFloat(inL)
	m.Regs[AdcR] = fixedpoint.FromFloat(inR)
	m.Regs[Pot0] = fixedpoint.FromFloat(pot0)
	m.Regs[Pot1] = fixedpoint.FromFloat(pot1)
	m.Regs[Pot2] = fixedpoint.FromFloat(pot2)

	m.runProgram()

	m.firstRun = false
	m.Delay.Tick()
	m.Sin0.Tick()
	m.Sin1.Tick()
	m.Rmp0.Tick()
	m.Rmp1.Tick()

	return m.Regs[DacL].ToFloat(), m.Regs[DacR].ToFloat()
}

func (m *VM) runProgram() {
	pc := 0
	for pc < len(m.prog.Code) {
		ins := &m.prog.Code[pc]
		if ins.Op == OpEnd {
			break
		}
		pc += 1 + m.execute(ins)
	}
}

// acc2pacc copies ACC into PACC. Every opcode that computes a new ACC
// does this as its first effect (SKP, WLDS, WLDR, JAM and NOP do not
// call it); WRLX/WRHX must snapshot PACC before calling it, since it is
// about to be overwritten.
func (m *VM) acc2pacc() {
	m.Pacc = m.Acc
}
