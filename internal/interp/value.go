package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/token"
)

// resolve implements this language's address-resolution order: a
// numeric literal first, then a quoted string literal, and only then
// a memory slot. A slot read before it is ever written defaults to
// int64(0), the same auto-vivifying behavior every memory slot gets.
func (it *Interpreter) resolve(addr string) any {
	if addr == "_" {
		return nil
	}
	if v, ok := resolveNumeric(addr); ok {
		return v
	}
	if len(addr) >= 2 && strings.HasPrefix(addr, `"`) && strings.HasSuffix(addr, `"`) {
		return addr[1 : len(addr)-1]
	}
	if v, ok := it.memory[addr]; ok {
		return v
	}
	it.memory[addr] = int64(0)
	return it.memory[addr]
}

// resolveNumeric parses addr as a number:
// a literal containing '.' is a float, anything else that parses
// cleanly as an integer is an int. A value that parses as neither
// falls through to string/variable resolution.
func resolveNumeric(addr string) (any, bool) {
	if addr == "" {
		return nil, false
	}
	if strings.Contains(addr, ".") {
		if f, err := strconv.ParseFloat(addr, 64); err == nil {
			return f, true
		}
		return nil, false
	}
	if i, err := strconv.ParseInt(addr, 10, 64); err == nil {
		return i, true
	}
	return nil, false
}

func isInt(v any) (int64, bool) {
	i, ok := v.(int64)
	return i, ok
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	default:
		return 0
	}
}

func bothInt(a, b any) bool {
	_, aok := isInt(a)
	_, bok := isInt(b)
	return aok && bok
}

func boolToNum(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func truthy(v any) bool {
	switch x := v.(type) {
	case int64:
		return x != 0
	case float64:
		return x != 0
	case bool:
		return x
	case string:
		return x != ""
	default:
		return false
	}
}

func negate(v any) any {
	if i, ok := isInt(v); ok {
		return -i
	}
	return -asFloat(v)
}

// arith executes add/sub/mul/div/mod. add/sub/mul stay integer when
// both operands are integers and fall back to float otherwise,
// mirroring Python's dynamic int/float promotion. div always
// produces a float, matching Python 3 true division regardless of
// operand types. A constant zero divisor reports DIV_BY_ZERO_RT and
// aborts the instruction rather than panicking.
func (it *Interpreter) arith(op, a1, a2, a3 string) *diag.Diagnostic {
	v1 := it.resolve(a1)
	v2 := it.resolve(a2)

	switch op {
	case "add", "sub", "mul":
		if bothInt(v1, v2) {
			i1, _ := isInt(v1)
			i2, _ := isInt(v2)
			it.memory[a3] = intOp(op, i1, i2)
		} else {
			it.memory[a3] = floatOp(op, asFloat(v1), asFloat(v2))
		}
		return nil

	case "div":
		f2 := asFloat(v2)
		if f2 == 0 {
			return divByZero(op)
		}
		it.memory[a3] = asFloat(v1) / f2
		return nil

	case "mod":
		if bothInt(v1, v2) {
			i1, _ := isInt(v1)
			i2, _ := isInt(v2)
			if i2 == 0 {
				return divByZero(op)
			}
			it.memory[a3] = i1 % i2
		} else {
			f2 := asFloat(v2)
			if f2 == 0 {
				return divByZero(op)
			}
			it.memory[a3] = math.Mod(asFloat(v1), f2)
		}
		return nil
	}
	return nil
}

func divByZero(op string) *diag.Diagnostic {
	d := diag.NewFatal(diag.DivByZeroRT, "division by zero at runtime ("+op+")", token.Position{})
	return &d
}

func intOp(op string, a, b int64) int64 {
	switch op {
	case "add":
		return a + b
	case "sub":
		return a - b
	case "mul":
		return a * b
	}
	return 0
}

func floatOp(op string, a, b float64) float64 {
	switch op {
	case "add":
		return a + b
	case "sub":
		return a - b
	case "mul":
		return a * b
	}
	return 0
}

func (it *Interpreter) relational(op, a1, a2, a3 string) {
	v1 := it.resolve(a1)
	v2 := it.resolve(a2)
	f1, f2 := asFloat(v1), asFloat(v2)
	var result bool
	switch op {
	case "gt":
		result = f1 > f2
	case "lt":
		result = f1 < f2
	case "ge":
		result = f1 >= f2
	case "le":
		result = f1 <= f2
	case "eq":
		result = f1 == f2
	case "ne":
		result = f1 != f2
	}
	it.memory[a3] = boolToNum(result)
}

func (it *Interpreter) logical(op, a1, a2, a3 string) {
	v1 := truthy(it.resolve(a1))
	v2 := truthy(it.resolve(a2))
	var result bool
	switch op {
	case "and":
		result = v1 && v2
	case "or":
		result = v1 || v2
	}
	it.memory[a3] = boolToNum(result)
}
