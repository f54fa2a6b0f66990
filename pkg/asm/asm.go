// Package asm implements the two-pass FV-1 SPN assembler: labels, EQU
// and MEM directives are resolved in a first pass over the source, then
// every instruction line is encoded into a packed 32-bit word via
// package decode in a second pass. The result is a 512-byte ROM image
// ready for package loader.
package asm

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/go-fv1/fv1emu/pkg/decode"
	"github.com/go-fv1/fv1emu/pkg/fixedpoint"
	"github.com/go-fv1/fv1emu/pkg/loader"
)

// Result is the output of a successful assembly.
type Result struct {
	Rom     [loader.RomBytes]byte
	Display []string // up to 3 POT label comments, in POT0/1/2 order
}

type line struct {
	num     int
	code    string // comment-stripped, trimmed
	comment string
}

type assembler struct {
	syms   map[string]float64
	labels map[string]bool
	memPtr int
	lines  []line
}

// Assemble compiles SPN source text into a ROM image.
func Assemble(source string) (*Result, error) {
	a := &assembler{syms: predefinedSymbols(), labels: map[string]bool{}}
	a.splitLines(source)

	if err := a.pass1(); err != nil {
		return nil, err
	}
	words, err := a.pass2()
	if err != nil {
		return nil, err
	}
	if len(words) > loader.RomWords-1 {
		return nil, errAt(0, "", "program too long: %d words exceeds budget of %d", len(words), loader.RomWords-1)
	}

	res := &Result{Display: a.potDisplay()}
	for i, w := range words {
		binary.BigEndian.PutUint32(res.Rom[i*4:], w)
	}
	binary.BigEndian.PutUint32(res.Rom[len(words)*4:], decode.End)
	return res, nil
}

func (a *assembler) splitLines(source string) {
	for i, raw := range strings.Split(source, "\n") {
		code, comment := raw, ""
		if idx := strings.IndexByte(raw, ';'); idx >= 0 {
			code, comment = raw[:idx], strings.TrimSpace(raw[idx+1:])
		}
		a.lines = append(a.lines, line{num: i + 1, code: strings.TrimSpace(code), comment: comment})
	}
}

// pass1 resolves labels, EQU, and MEM, counting instruction words as it
// goes so labels land on the program indices they refer to in pass 2.
func (a *assembler) pass1() error {
	instrIndex := 0
	for _, ln := range a.lines {
		if ln.code == "" {
			continue
		}
		if strings.HasSuffix(ln.code, ":") {
			name := strings.ToUpper(strings.TrimSuffix(ln.code, ":"))
			a.syms[name] = float64(instrIndex)
			a.labels[name] = true
			continue
		}
		field, rest := splitMnemonic(ln.code)
		switch strings.ToUpper(field) {
		case "EQU":
			if err := a.doEqu(ln.num, rest); err != nil {
				return err
			}
		case "MEM":
			if err := a.doMem(ln.num, rest); err != nil {
				return err
			}
		default:
			if !knownMnemonics[strings.ToUpper(field)] {
				return errAt(ln.num, ln.code, "unrecognised mnemonic %q", field)
			}
			instrIndex++
		}
	}
	return nil
}

func (a *assembler) doEqu(num int, rest string) error {
	parts := splitNameValue(rest)
	if len(parts) != 2 {
		return errAt(num, rest, "EQU requires name, value")
	}
	name := strings.ToUpper(strings.TrimSpace(parts[0]))
	v, err := evalExpr(parts[1], a.syms)
	if err != nil {
		return errAt(num, rest, "%s", err)
	}
	a.syms[name] = v
	a.syms["-"+name] = -v
	return nil
}

func (a *assembler) doMem(num int, rest string) error {
	parts := splitNameValue(rest)
	if len(parts) != 2 {
		return errAt(num, rest, "MEM requires name, length")
	}
	name := strings.ToUpper(strings.TrimSpace(parts[0]))
	lenV, err := evalExpr(parts[1], a.syms)
	if err != nil {
		return errAt(num, rest, "%s", err)
	}
	length := int(lenV)
	base := a.memPtr
	a.syms[name] = float64(base)
	a.syms[name+"#"] = float64(base + length)
	a.syms[name+"^"] = float64(base + length/2)
	a.memPtr += length
	return nil
}

// pass2 encodes every instruction line into a 32-bit word, in order.
func (a *assembler) pass2() ([]uint32, error) {
	var words []uint32
	instrIndex := 0
	for _, ln := range a.lines {
		if ln.code == "" || strings.HasSuffix(ln.code, ":") {
			continue
		}
		field, rest := splitMnemonic(ln.code)
		up := strings.ToUpper(field)
		if up == "EQU" || up == "MEM" {
			continue
		}
		w, err := a.encode(ln.num, up, rest, instrIndex)
		if err != nil {
			return nil, err
		}
		words = append(words, decode.Encode(w))
		instrIndex++
	}
	return words, nil
}

func splitMnemonic(code string) (mnemonic, rest string) {
	i := strings.IndexAny(code, " \t")
	if i < 0 {
		return code, ""
	}
	mnemonic, rest = code[:i], strings.TrimSpace(code[i+1:])
	// "NAME EQU value" and "NAME MEM length" put the directive second.
	if j := strings.IndexAny(rest, " \t"); j > 0 {
		if d := strings.ToUpper(rest[:j]); d == "EQU" || d == "MEM" {
			return d, mnemonic + " " + strings.TrimSpace(rest[j+1:])
		}
	}
	return mnemonic, rest
}

// splitNameValue splits EQU/MEM operands at the first comma or
// whitespace, so "name,value" and "name value" are both accepted.
func splitNameValue(rest string) []string {
	i := strings.IndexAny(rest, ", \t")
	if i < 0 {
		return nil
	}
	return []string{rest[:i], strings.TrimLeft(rest[i:], ", \t")}
}

func splitOperands(rest string) []string {
	if rest == "" {
		return nil
	}
	fields := strings.Split(rest, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// potDisplay scans comments for the "POT0"/"POT1"/"POT2" labelling
// convention, returning up to three strings in pot-index order.
func (a *assembler) potDisplay() []string {
	found := map[int]string{}
	for _, ln := range a.lines {
		if ln.comment == "" {
			continue
		}
		up := strings.ToUpper(ln.comment)
		for i := 0; i < 3; i++ {
			tag := "POT" + strconv.Itoa(i)
			if strings.HasPrefix(up, tag) {
				if _, ok := found[i]; !ok {
					found[i] = strings.TrimSpace(ln.comment[len(tag):])
				}
			}
		}
	}
	var out []string
	for i := 0; i < 3; i++ {
		if s, ok := found[i]; ok {
			out = append(out, s)
		}
	}
	return out
}

// coeff evaluates a multiplier operand. Coefficient fields span [-2, 2),
// twice a Q1.23 Value's range, so the value is converted at half scale
// and doubled: "1.0" encodes as exactly fixedpoint.F.
func (a *assembler) coeff(tok string) (fixedpoint.Value, error) {
	v, err := evalExpr(tok, a.syms)
	if err != nil {
		return 0, err
	}
	return fixedpoint.FromFloat(v/2) * 2, nil
}

// offset evaluates a SOF/LOG/EXP constant operand, whose field holds
// only [-1, 1).
func (a *assembler) offset(tok string) (fixedpoint.Value, error) {
	v, err := evalExpr(tok, a.syms)
	if err != nil {
		return 0, err
	}
	return fixedpoint.FromFloat(v), nil
}

func (a *assembler) intOperand(tok string) (int, error) {
	v, err := evalExpr(tok, a.syms)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func (a *assembler) lfoSelector(tok string) (lfo int, forceCos int, err error) {
	switch strings.ToUpper(strings.TrimSpace(tok)) {
	case "SIN0":
		return 0, 0, nil
	case "SIN1":
		return 1, 0, nil
	case "RMP0":
		return 2, 0, nil
	case "RMP1":
		return 3, 0, nil
	case "COS0":
		return 0, 0x01, nil
	case "COS1":
		return 1, 0x01, nil
	}
	v, e := a.intOperand(tok)
	return v, 0, e
}
