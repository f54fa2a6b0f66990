package vm

import "strconv"

// Register addresses, per the FV-1 register map. All are 24-bit Q1.23
// fields in a flat, densely addressed 64-entry file.
const (
	Sin0Rate  = 0x00
	Sin0Range = 0x01
	Sin1Rate  = 0x02
	Sin1Range = 0x03
	Rmp0Rate  = 0x04
	Rmp0Range = 0x05
	Rmp1Rate  = 0x06
	Rmp1Range = 0x07

	Pot0 = 0x10
	Pot1 = 0x11
	Pot2 = 0x12

	AdcL = 0x14
	AdcR = 0x15
	DacL = 0x16
	DacR = 0x17

	AddrPtr = 0x18

	Reg0  = 0x20
	Reg31 = 0x3F

	NumRegisters = 0x40
)

// RegName returns the canonical register name for addr, or "" if addr
// does not have a well-known name (falls back to REGn in that range).
func RegName(addr int) string {
	switch addr {
	case Sin0Rate:
		return "SIN0_RATE"
	case Sin0Range:
		return "SIN0_RANGE"
	case Sin1Rate:
		return "SIN1_RATE"
	case Sin1Range:
		return "SIN1_RANGE"
	case Rmp0Rate:
		return "RMP0_RATE"
	case Rmp0Range:
		return "RMP0_RANGE"
	case Rmp1Rate:
		return "RMP1_RATE"
	case Rmp1Range:
		return "RMP1_RANGE"
	case Pot0:
		return "POT0"
	case Pot1:
		return "POT1"
	case Pot2:
		return "POT2"
	case AdcL:
		return "ADCL"
	case AdcR:
		return "ADCR"
	case DacL:
		return "DACL"
	case DacR:
		return "DACR"
	case AddrPtr:
		return "ADDR_PTR"
	}
	if addr >= Reg0 && addr <= Reg31 {
		return "REG" + strconv.Itoa(addr-Reg0)
	}
	return ""
}
