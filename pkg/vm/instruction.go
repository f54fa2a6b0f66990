package vm

import "github.com/go-fv1/fv1emu/pkg/fixedpoint"

// Instruction is a dispatch-ready FV-1 instruction: an opcode tag plus
// the operand slots every opcode class can draw from. Which fields are
// meaningful depends entirely on Op; see VM.execute for the mapping.
//
// Reg/Reg2 are resolved register-file handles bound by the loader at
// load time (a *fixedpoint.Value pointing directly into VM.Regs), so
// execute never re-indexes the register file by address at run time.
type Instruction struct {
	Op   Op
	Reg  *fixedpoint.Value
	Reg2 *fixedpoint.Value
	S    fixedpoint.Value // scale coefficient (RDAX/WRAX/MAXX/RDFX/WRLX/WRHX/RDA/RMPA/WRA/WRAP/SOF/LOG/EXP)
	A    int               // SOF/LOG/EXP offset; AND/OR/XOR mask; RDA/WRA/WRAP delay addr; SKP flags; WLDS/WLDR freq; CHO flags
	B    int               // SKP skip count; WLDS/WLDR amp
	Lfo  int               // WLDS/WLDR/JAM/CHO LFO selector
}

// Program is a fully loaded, execute-ready instruction sequence: always
// exactly 128 entries, the last reachable one always OpEnd, the tail
// padded with OpNop.
type Program struct {
	Code    [128]Instruction
	Display []string // POT-comment display strings extracted by the assembler, up to 3
}
