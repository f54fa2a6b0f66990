package asm

import (
	"strconv"

	"github.com/go-fv1/fv1emu/pkg/vm"
)

// predefinedSymbols seeds a fresh assembly with every register name,
// CHO selector/flag name, and SKP condition-flag name the FV-1 assembly
// dialect recognises out of the box, before any EQU/MEM/label in the
// source is processed.
func predefinedSymbols() map[string]float64 {
	s := map[string]float64{
		"SIN0_RATE":  vm.Sin0Rate,
		"SIN0_RANGE": vm.Sin0Range,
		"SIN1_RATE":  vm.Sin1Rate,
		"SIN1_RANGE": vm.Sin1Range,
		"RMP0_RATE":  vm.Rmp0Rate,
		"RMP0_RANGE": vm.Rmp0Range,
		"RMP1_RATE":  vm.Rmp1Rate,
		"RMP1_RANGE": vm.Rmp1Range,
		"POT0":       vm.Pot0,
		"POT1":       vm.Pot1,
		"POT2":       vm.Pot2,
		"ADCL":       vm.AdcL,
		"ADCR":       vm.AdcR,
		"DACL":       vm.DacL,
		"DACR":       vm.DacR,
		"ADDR_PTR":   vm.AddrPtr,

		// CHO LFO selectors.
		"SIN0": vm.ChoLfoSin0,
		"SIN1": vm.ChoLfoSin1,
		"RMP0": vm.ChoLfoRmp0,
		"RMP1": vm.ChoLfoRmp1,
		"COS0": vm.ChoLfoCos0,
		"COS1": vm.ChoLfoCos1,

		// CHO flags. SIN is the absence of the COS bit, kept as a named
		// zero for readability in source (e.g. "CHO RDA, SIN0, SIN, x").
		"SIN":   0,
		"COS":   vm.ChoCos,
		"REG":   vm.ChoReg,
		"COMPC": vm.ChoCompc,
		"COMPA": vm.ChoCompa,
		"RPTR2": vm.ChoRptr2,
		"NA":    vm.ChoNa,

		// SKP condition flags.
		"NEG": vm.SkpNeg,
		"GEZ": vm.SkpGez,
		"ZRO": vm.SkpZro,
		"ZRC": vm.SkpZrc,
		"RUN": vm.SkpRun,
	}
	for i := 0; i <= 31; i++ {
		s["REG"+strconv.Itoa(i)] = float64(vm.Reg0 + i)
	}
	return s
}

// knownMnemonics is the set of first-word tokens pass 1 recognises as an
// instruction (as opposed to a label or directive), for instruction-index
// bookkeeping.
var knownMnemonics = map[string]bool{
	"SOF": true, "AND": true, "OR": true, "XOR": true, "LOG": true, "EXP": true,
	"SKP": true, "RDAX": true, "WRAX": true, "MAXX": true, "MULX": true,
	"RDFX": true, "WRLX": true, "WRHX": true, "LDAX": true, "CLR": true,
	"NOT": true, "ABSA": true, "RDA": true, "RMPA": true, "WRA": true,
	"WRAP": true, "WLDS": true, "WLDR": true, "JAM": true, "CHO": true,
	"NOP": true,
}
