package asm

import (
	"fmt"

	"github.com/go-fv1/fv1emu/pkg/decode"
	"github.com/go-fv1/fv1emu/pkg/fixedpoint"
	"github.com/go-fv1/fv1emu/pkg/vm"
)

// Disassemble renders a single decoded instruction word as one line of
// SPN-ish text, the way FV1_DASM.hpp's printASM does. It is a best-
// effort rendering for humans (logs, disasm CLI output), not guaranteed
// to re-assemble byte-identically — register addresses are rendered
// through vm.RegName where one exists, and coefficients as decimals.
func Disassemble(word uint32) string {
	w := decode.Decode(word)
	coeff := func(raw int) string { return fmt.Sprintf("%.6f", float64(raw)/float64(fixedpoint.F)) }
	reg := func(addr int) string {
		if name := vm.RegName(addr); name != "" {
			return name
		}
		return fmt.Sprintf("$%02X", addr)
	}

	switch w.Tag {
	case decode.SOF:
		return fmt.Sprintf("SOF %s,%s", coeff(w.Arg1), coeff(w.Arg2))
	case decode.LOG:
		return fmt.Sprintf("LOG %s,%s", coeff(w.Arg1), coeff(w.Arg2))
	case decode.EXP:
		return fmt.Sprintf("EXP %s,%s", coeff(w.Arg1), coeff(w.Arg2))
	case decode.AND:
		if w.Arg1 == 0 {
			return "CLR"
		}
		return fmt.Sprintf("AND $%06X", w.Arg1)
	case decode.OR:
		return fmt.Sprintf("OR $%06X", w.Arg1)
	case decode.XOR:
		if w.Arg1 == 0x00FFFFFF {
			return "NOT"
		}
		return fmt.Sprintf("XOR $%06X", w.Arg1)
	case decode.SKP:
		if w.Arg1 == 0 && w.Arg2 == 0 {
			return "NOP"
		}
		return fmt.Sprintf("SKP %#x,%d", w.Arg1, w.Arg2)
	case decode.RDAX:
		return fmt.Sprintf("RDAX %s,%s", reg(w.Arg1), coeff(w.Arg2))
	case decode.WRAX:
		return fmt.Sprintf("WRAX %s,%s", reg(w.Arg1), coeff(w.Arg2))
	case decode.MAXX:
		if w.Arg1 == 0 && w.Arg2 == 0 {
			return "ABSA"
		}
		return fmt.Sprintf("MAXX %s,%s", reg(w.Arg1), coeff(w.Arg2))
	case decode.MULX:
		return fmt.Sprintf("MULX %s", reg(w.Arg1))
	case decode.RDFX:
		if w.Arg2 == 0 {
			return fmt.Sprintf("LDAX %s", reg(w.Arg1))
		}
		return fmt.Sprintf("RDFX %s,%s", reg(w.Arg1), coeff(w.Arg2))
	case decode.WRLX:
		return fmt.Sprintf("WRLX %s,%s", reg(w.Arg1), coeff(w.Arg2))
	case decode.WRHX:
		return fmt.Sprintf("WRHX %s,%s", reg(w.Arg1), coeff(w.Arg2))
	case decode.RDA:
		return fmt.Sprintf("RDA $%04X,%s", w.Arg1, coeff(w.Arg2))
	case decode.WRA:
		return fmt.Sprintf("WRA $%04X,%s", w.Arg1, coeff(w.Arg2))
	case decode.WRAP:
		return fmt.Sprintf("WRAP $%04X,%s", w.Arg1, coeff(w.Arg2))
	case decode.RMPA:
		return fmt.Sprintf("RMPA %s", coeff(w.Arg1))
	case decode.WLDS:
		return fmt.Sprintf("WLDS %s,%d,%d", sinName(w.Arg1), w.Arg2, w.Arg3)
	case decode.WLDR:
		return fmt.Sprintf("WLDR %s,%d,%d", rampName(w.Arg1), w.Arg2, w.Arg3)
	case decode.JAM:
		return fmt.Sprintf("JAM %s", rampName(w.Arg1))
	case decode.CHORDA:
		return fmt.Sprintf("CHO RDA,%s,%#x,$%04X", lfoName(w.Arg1), w.Arg2, w.Arg3)
	case decode.CHOSOF:
		return fmt.Sprintf("CHO SOF,%s,%#x,$%04X", lfoName(w.Arg1), w.Arg2, w.Arg3)
	case decode.CHORDAL:
		return fmt.Sprintf("CHO RDAL,%s", lfoName(w.Arg1))
	}
	return fmt.Sprintf("DW $%08X", word)
}

func sinName(v int) string {
	if v == 1 {
		return "SIN1"
	}
	return "SIN0"
}

func rampName(v int) string {
	if v == 1 {
		return "RMP1"
	}
	return "RMP0"
}

func lfoName(v int) string {
	switch v {
	case 0:
		return "SIN0"
	case 1:
		return "SIN1"
	case 2:
		return "RMP0"
	case 3:
		return "RMP1"
	}
	return fmt.Sprintf("%d", v)
}
