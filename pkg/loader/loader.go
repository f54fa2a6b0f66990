// Package loader turns a compiled 512-byte FV-1 ROM image into a
// dispatch-ready vm.Program: it decodes each word, applies the
// peephole substitutions that replace common operand patterns with
// faster specialised dispatch tags, binds register-address operands to
// direct handles into the target VM's register file, and pads/
// terminates the result to the fixed 128-instruction program budget.
package loader

import (
	"encoding/binary"

	"github.com/go-fv1/fv1emu/pkg/decode"
	"github.com/go-fv1/fv1emu/pkg/fixedpoint"
	"github.com/go-fv1/fv1emu/pkg/vm"
)

// RomBytes is the size of a compiled FV-1 program image.
const RomBytes = 512

// RomWords is the maximum instruction count a ROM image can hold.
const RomWords = RomBytes / 4

// ProgramSize is the fixed length of a dispatch-ready Program,
// including its trailing OpEnd sentinel.
const ProgramSize = 128

// Load decodes a 512-byte big-endian ROM image and binds it against
// regs, returning a Program ready to run.
func Load(rom []byte, regs *[vm.NumRegisters]fixedpoint.Value) *vm.Program {
	return LoadWords(decodeWords(rom), regs)
}

// LoadInto is a convenience wrapper that loads rom directly onto m.
func LoadInto(rom []byte, m *vm.VM) {
	m.LoadProgram(Load(rom, &m.Regs))
}

func decodeWords(rom []byte) []uint32 {
	words := make([]uint32, 0, RomWords)
	for i := 0; i+4 <= len(rom) && len(words) < RomWords; i += 4 {
		w := binary.BigEndian.Uint32(rom[i:])
		if w == uint32(decode.SKP) {
			break
		}
		words = append(words, w)
	}
	return words
}

// LoadWords builds a Program from already-decoded raw instruction
// words (as produced by an assembler, bypassing a ROM round-trip).
func LoadWords(words []uint32, regs *[vm.NumRegisters]fixedpoint.Value) *vm.Program {
	decoded := make([]decode.Word, len(words))
	for i, w := range words {
		decoded[i] = decode.Decode(w)
	}

	p := &vm.Program{}
	n, i := 0, 0
	for i < len(decoded) && n < ProgramSize-1 {
		ins, consumed := fuse(decoded, i, regs)
		p.Code[n] = ins
		n++
		i += consumed
	}
	for n < ProgramSize-1 {
		p.Code[n] = vm.Instruction{Op: vm.OpNop}
		n++
	}
	p.Code[ProgramSize-1] = vm.Instruction{Op: vm.OpEnd}
	return p
}

// fuse maps the decoded word at ws[i] to a dispatch-ready Instruction,
// applying the peephole rewrites and, where a pattern spans two words
// (WRAX r,0 immediately followed by RDAX r2,s), folding both into one
// Instruction. Returns the instruction and how many decoded words it
// consumed.
func fuse(ws []decode.Word, i int, regs *[vm.NumRegisters]fixedpoint.Value) (vm.Instruction, int) {
	w := ws[i]
	switch w.Tag {
	case decode.SOF:
		scaleRaw, offset := w.Arg1, w.Arg2
		switch {
		case scaleRaw == 0:
			return vm.Instruction{Op: vm.OpSetConst, A: offset}, 1
		case scaleRaw == fixedpoint.F:
			return vm.Instruction{Op: vm.OpAddConst, A: offset}, 1
		case offset == 0:
			return vm.Instruction{Op: vm.OpScaleAcc, S: fixedpoint.FromRaw(scaleRaw)}, 1
		default:
			return vm.Instruction{Op: vm.OpSof, S: fixedpoint.FromRaw(scaleRaw), A: offset}, 1
		}

	case decode.LOG:
		return vm.Instruction{Op: vm.OpLog, S: fixedpoint.FromRaw(w.Arg1), A: w.Arg2}, 1

	case decode.EXP:
		if w.Arg1 == fixedpoint.F && w.Arg2 == 0 {
			return vm.Instruction{Op: vm.OpExpRaw}, 1
		}
		return vm.Instruction{Op: vm.OpExp, S: fixedpoint.FromRaw(w.Arg1), A: w.Arg2}, 1

	case decode.AND:
		// CLR is assembler sugar for AND 0; the loader recognises it
		// and dispatches the dedicated fast path instead.
		if w.Arg1 == 0 {
			return vm.Instruction{Op: vm.OpClr}, 1
		}
		return vm.Instruction{Op: vm.OpAnd, A: w.Arg1}, 1

	case decode.OR:
		return vm.Instruction{Op: vm.OpOr, A: w.Arg1}, 1

	case decode.XOR:
		// NOT is assembler sugar for XOR 0x00FFFFFF.
		if w.Arg1 == 0x00FFFFFF {
			return vm.Instruction{Op: vm.OpNot}, 1
		}
		return vm.Instruction{Op: vm.OpXor, A: w.Arg1}, 1

	case decode.SKP:
		return vm.Instruction{Op: vm.OpSkp, A: w.Arg1, B: w.Arg2}, 1

	case decode.RDAX:
		reg := regAt(regs, w.Arg1)
		if w.Arg2 == fixedpoint.F {
			return vm.Instruction{Op: vm.OpRdaxAdd, Reg: reg}, 1
		}
		return vm.Instruction{Op: vm.OpRdax, Reg: reg, S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.WRAX:
		reg := regAt(regs, w.Arg1)
		if w.Arg2 == 0 && i+1 < len(ws) && ws[i+1].Tag == decode.RDAX {
			next := ws[i+1]
			reg2 := regAt(regs, next.Arg1)
			return vm.Instruction{Op: vm.OpWraxRdax, Reg: reg, Reg2: reg2, S: fixedpoint.FromRaw(next.Arg2)}, 2
		}
		if w.Arg2 == fixedpoint.F {
			return vm.Instruction{Op: vm.OpWraxStore, Reg: reg}, 1
		}
		return vm.Instruction{Op: vm.OpWrax, Reg: reg, S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.MAXX:
		// ABSA is assembler sugar for MAXX 0,0.
		if w.Arg1 == 0 && w.Arg2 == 0 {
			return vm.Instruction{Op: vm.OpAbsa}, 1
		}
		return vm.Instruction{Op: vm.OpMaxx, Reg: regAt(regs, w.Arg1), S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.MULX:
		return vm.Instruction{Op: vm.OpMulx, Reg: regAt(regs, w.Arg1)}, 1

	case decode.RDFX:
		// LDAX is assembler sugar for RDFX r,0.
		if w.Arg2 == 0 {
			return vm.Instruction{Op: vm.OpLdax, Reg: regAt(regs, w.Arg1)}, 1
		}
		return vm.Instruction{Op: vm.OpRdfx, Reg: regAt(regs, w.Arg1), S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.WRLX:
		return vm.Instruction{Op: vm.OpWrlx, Reg: regAt(regs, w.Arg1), S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.WRHX:
		return vm.Instruction{Op: vm.OpWrhx, Reg: regAt(regs, w.Arg1), S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.RDA:
		return vm.Instruction{Op: vm.OpRda, A: w.Arg1, S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.WRA:
		return vm.Instruction{Op: vm.OpWra, A: w.Arg1, S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.WRAP:
		return vm.Instruction{Op: vm.OpWrap, A: w.Arg1, S: fixedpoint.FromRaw(w.Arg2)}, 1

	case decode.RMPA:
		return vm.Instruction{Op: vm.OpRmpa, S: fixedpoint.FromRaw(w.Arg1)}, 1

	case decode.WLDS:
		return vm.Instruction{Op: vm.OpWlds, Lfo: w.Arg1, A: w.Arg2, B: w.Arg3}, 1

	case decode.WLDR:
		return vm.Instruction{Op: vm.OpWldr, Lfo: w.Arg1, A: w.Arg2, B: w.Arg3}, 1

	case decode.JAM:
		return vm.Instruction{Op: vm.OpJam, Lfo: w.Arg1}, 1

	case decode.CHORDA:
		return vm.Instruction{Op: vm.OpChoRda, Lfo: w.Arg1, A: w.Arg2, B: w.Arg3}, 1

	case decode.CHOSOF:
		return vm.Instruction{Op: vm.OpChoSof, Lfo: w.Arg1, A: w.Arg2, B: w.Arg3}, 1

	case decode.CHORDAL:
		return vm.Instruction{Op: vm.OpChoRdal, Lfo: w.Arg1}, 1
	}
	return vm.Instruction{Op: vm.OpNop}, 1
}

func regAt(regs *[vm.NumRegisters]fixedpoint.Value, addr int) *fixedpoint.Value {
	return &regs[addr&(vm.NumRegisters-1)]
}
