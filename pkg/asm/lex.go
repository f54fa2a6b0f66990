package asm

import (
	"strconv"
	"strings"
)

// parseNumber recognises decimal (optionally fractional), 0x/$ hex, and
// % binary literals, with '_' allowed anywhere as a digit-group
// separator (e.g. 1_000, 0x1_F).
func parseNumber(tok string) (float64, bool) {
	t := strings.ReplaceAll(tok, "_", "")
	if t == "" {
		return 0, false
	}
	switch {
	case strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X"):
		n, err := strconv.ParseInt(t[2:], 16, 64)
		return float64(n), err == nil
	case strings.HasPrefix(t, "$"):
		n, err := strconv.ParseInt(t[1:], 16, 64)
		return float64(n), err == nil
	case strings.HasPrefix(t, "%"):
		n, err := strconv.ParseInt(t[1:], 2, 64)
		return float64(n), err == nil
	default:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
}

func isExprOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/' || c == '|' || c == '<'
}

// evalExpr evaluates a left-to-right, no-precedence arithmetic
// expression over numeric literals and symbol names. A leading '-' on
// the first operand is treated as part of that operand's name (to
// support the "-NAME" negated-equate convention, see EQU in asm.go)
// rather than as subtraction. "<<" is recognised as a single two-
// character left-shift operator, matching FV1_SPN.hpp's ParseInt.
func evalExpr(expr string, syms map[string]float64) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, errAt(0, expr, "empty expression")
	}

	var values []float64
	var ops []string

	i := 0
	first := true
	for i < len(expr) {
		j := i
		if first && j < len(expr) && expr[j] == '-' {
			j++
		}
		for j < len(expr) && !isExprOperator(expr[j]) {
			j++
		}
		tok := strings.TrimSpace(expr[i:j])
		v, err := operandValue(tok, syms)
		if err != nil {
			return 0, err
		}
		values = append(values, v)
		first = false
		if j < len(expr) {
			op := string(expr[j])
			i = j + 1
			if expr[j] == '<' && i < len(expr) && expr[i] == '<' {
				op = "<<"
				i++
			}
			ops = append(ops, op)
		} else {
			i = j
		}
	}

	result := values[0]
	for k, op := range ops {
		rhs := values[k+1]
		switch op {
		case "+":
			result += rhs
		case "-":
			result -= rhs
		case "*":
			result *= rhs
		case "/":
			result /= rhs
		case "|":
			result = float64(int64(result) | int64(rhs))
		case "<<":
			result = float64(int64(result) << uint(int64(rhs)))
		}
	}
	return result, nil
}

func operandValue(tok string, syms map[string]float64) (float64, error) {
	if tok == "" {
		return 0, errAt(0, tok, "missing operand")
	}
	if v, ok := parseNumber(tok); ok {
		return v, nil
	}
	if v, ok := syms[strings.ToUpper(tok)]; ok {
		return v, nil
	}
	return 0, errAt(0, tok, "undefined symbol")
}
