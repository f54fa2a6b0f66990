package asm

import (
	"strings"

	"github.com/go-fv1/fv1emu/pkg/decode"
)

// encode turns one instruction line (mnemonic already split off into up,
// rest already comma-split-able) into its decode.Word, ready for
// decode.Encode.
func (a *assembler) encode(num int, up, rest string, instrIndex int) (decode.Word, error) {
	ops := splitOperands(rest)
	op := func(i int) string {
		if i < len(ops) {
			return ops[i]
		}
		return "0"
	}

	switch up {
	case "SOF":
		s, err := a.coeff(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		k, err := a.offset(op(1))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.SOF, Arg1: int(s), Arg2: int(k)}, nil

	case "LOG", "EXP":
		tag := decode.LOG
		if up == "EXP" {
			tag = decode.EXP
		}
		s, err := a.coeff(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		k, err := a.offset(op(1))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: tag, Arg1: int(s), Arg2: int(k)}, nil

	case "AND", "OR", "XOR":
		tag := map[string]decode.Tag{"AND": decode.AND, "OR": decode.OR, "XOR": decode.XOR}[up]
		mask, err := a.intOperand(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: tag, Arg1: mask}, nil

	case "CLR":
		return decode.Word{Tag: decode.AND, Arg1: 0}, nil

	case "NOT":
		return decode.Word{Tag: decode.XOR, Arg1: 0x00FFFFFF}, nil

	case "ABSA":
		return decode.Word{Tag: decode.MAXX, Arg1: 0, Arg2: 0}, nil

	case "SKP":
		flags, err := a.intOperand(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		target := strings.ToUpper(strings.TrimSpace(op(1)))
		var nskip int
		if a.labels[target] {
			// target - instrIndex - 1, not the "+2" form FV1_SPN.hpp uses:
			// vm.go's dispatch loop already adds 1 for the instruction
			// itself (pc += 1 + nskip), so that +1 is folded in here instead.
			nskip = int(a.syms[target]) - instrIndex - 1
		} else {
			nskip, err = a.intOperand(op(1))
			if err != nil {
				return decode.Word{}, errAt(num, rest, "%s", err)
			}
		}
		return decode.Word{Tag: decode.SKP, Arg1: flags, Arg2: nskip}, nil

	case "NOP":
		return decode.Word{Tag: decode.SKP, Arg1: 0, Arg2: 0}, nil

	case "RDAX", "MAXX", "RDFX", "WRLX", "WRHX":
		tag := map[string]decode.Tag{
			"RDAX": decode.RDAX, "MAXX": decode.MAXX, "RDFX": decode.RDFX,
			"WRLX": decode.WRLX, "WRHX": decode.WRHX,
		}[up]
		reg, err := a.intOperand(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		s, err := a.coeff(op(1))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: tag, Arg1: reg, Arg2: int(s)}, nil

	case "LDAX":
		reg, err := a.intOperand(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.RDFX, Arg1: reg, Arg2: 0}, nil

	case "WRAX":
		reg, err := a.intOperand(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		s, err := a.coeff(op(1))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.WRAX, Arg1: reg, Arg2: int(s)}, nil

	case "MULX":
		reg, err := a.intOperand(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.MULX, Arg1: reg}, nil

	case "RDA", "WRA", "WRAP":
		tag := map[string]decode.Tag{"RDA": decode.RDA, "WRA": decode.WRA, "WRAP": decode.WRAP}[up]
		addr, err := a.intOperand(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		s, err := a.coeff(op(1))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: tag, Arg1: addr, Arg2: int(s)}, nil

	case "RMPA":
		s, err := a.coeff(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.RMPA, Arg1: int(s)}, nil

	case "WLDS":
		which, err := sinSelector(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		rate, err := a.intOperand(op(1))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		rng, err := a.intOperand(op(2))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.WLDS, Arg1: which, Arg2: rate, Arg3: rng}, nil

	case "WLDR":
		which, err := rampSelector(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		rate, err := a.intOperand(op(1))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		rng, err := a.intOperand(op(2))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.WLDR, Arg1: which, Arg2: rate, Arg3: rampRangeIndex(rng)}, nil

	case "JAM":
		which, err := rampSelector(op(0))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		return decode.Word{Tag: decode.JAM, Arg1: which}, nil

	case "CHO":
		return a.encodeCho(num, rest, ops)
	}
	return decode.Word{}, errAt(num, rest, "unrecognised mnemonic %q", up)
}

func (a *assembler) encodeCho(num int, rest string, ops []string) (decode.Word, error) {
	if len(ops) < 2 {
		return decode.Word{}, errAt(num, rest, "CHO requires a sub-form and an LFO operand")
	}
	sub := strings.ToUpper(strings.TrimSpace(ops[0]))
	lfo, forceCos, err := a.lfoSelector(ops[1])
	if err != nil {
		return decode.Word{}, errAt(num, rest, "%s", err)
	}

	op := func(i int) string {
		if i < len(ops) {
			return ops[i]
		}
		return "0"
	}

	switch sub {
	case "RDAL":
		return decode.Word{Tag: decode.CHORDAL, Arg1: lfo}, nil
	case "RDA", "SOF":
		flags, err := a.intOperand(op(2))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		flags |= forceCos
		addr, err := a.intOperand(op(3))
		if err != nil {
			return decode.Word{}, errAt(num, rest, "%s", err)
		}
		tag := decode.CHORDA
		if sub == "SOF" {
			tag = decode.CHOSOF
		}
		return decode.Word{Tag: tag, Arg1: lfo, Arg2: flags, Arg3: addr}, nil
	}
	return decode.Word{}, errAt(num, rest, "unrecognised CHO sub-form %q", sub)
}

func sinSelector(tok string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(tok)) {
	case "SIN0":
		return 0, nil
	case "SIN1":
		return 1, nil
	}
	return 0, errAt(0, tok, "expected SIN0 or SIN1")
}

func rampSelector(tok string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(tok)) {
	case "RMP0":
		return 0, nil
	case "RMP1":
		return 1, nil
	}
	return 0, errAt(0, tok, "expected RMP0 or RMP1")
}

// rampRangeIndex maps a WLDR amplitude operand, given in samples, to the
// 2-bit index the WLDR word's narrow range field actually carries.
// Anything other than 512/1024/2048 defaults to the 4096-sample period,
// matching FV1_SPN.hpp's WLDR encoding.
func rampRangeIndex(amp int) int {
	switch amp {
	case 512:
		return 0x03
	case 1024:
		return 0x02
	case 2048:
		return 0x01
	default:
		return 0
	}
}
