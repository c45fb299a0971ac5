// Package interp implements the fifth pipeline phase: a flat-memory
// executor for the quadruple program the ir package emits. It mirrors
// the teaching interpreter's dispatch shape (a label table built once
// at load time, then a fetch-execute loop over a program counter) and
// its address-resolution rules: an operand is read as a numeric
// literal first, then a quoted string literal, and only then as a
// memory slot — auto-initialized to 0 on first read.
package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/ir"
	"github.com/surebria/minic/internal/token"
)

// ErrNeedsInput is returned by Execute when a rd instruction needs a
// value and the caller's inputs slice is already exhausted and no
// Stdin reader was configured. Callers that want interactive cin
// behavior should set Interpreter.Stdin; the batch-mode Execute entry
// point used by tests and tooling deliberately does not block on the
// process's real stdin.
var ErrNeedsInput = errors.New("interp: rd requires input but none remains")

// DefaultMaxSteps bounds execution when the caller passes 0, guarding
// against runaway loops.
const DefaultMaxSteps = 100000

// Result is everything a completed (or aborted) run produced.
type Result struct {
	Output    []any
	Memory    map[string]any
	Steps     int
	Completed bool
}

// Interpreter executes one quadruple program at a time. A zero value
// is ready to use; Execute resets all per-run state itself.
type Interpreter struct {
	// Stdin, when set, is consulted for a rd once the supplied
	// inputs are exhausted, mirroring an interactive cin prompt
	// fallback. A failed read (EOF) defaults the variable to 0,
	// falling back to 0 on EOF.
	Stdin io.Reader
	// Writer, when set, receives each wri value as it executes, in
	// addition to it being collected in Result.Output.
	Writer io.Writer

	quads  []ir.Quadruple
	labels map[string]int
	memory map[string]any
	output []any
	inputs []string
	pc     int
	halted bool
	stdin  *bufio.Reader
}

func New() *Interpreter { return &Interpreter{} }

// Execute runs quads to completion, to a halt instruction, to a fatal
// runtime diagnostic, or until maxSteps executed instructions is
// reached (0 uses DefaultMaxSteps). inputs feeds successive rd
// instructions in order.
func (it *Interpreter) Execute(quads []ir.Quadruple, inputs []string, maxSteps int) (Result, []diag.Diagnostic, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	it.load(quads)
	it.inputs = append([]string(nil), inputs...)
	if it.Stdin != nil {
		it.stdin = bufio.NewReader(it.Stdin)
	}

	var diags []diag.Diagnostic
	steps := 0
	for !it.halted && it.pc < len(it.quads) && steps < maxSteps {
		d, err := it.step()
		if err != nil {
			return it.result(steps, false), diags, err
		}
		if d != nil {
			diags = append(diags, *d)
			if d.Fatal {
				return it.result(steps, false), diags, nil
			}
		}
		steps++
	}

	completed := it.halted || it.pc >= len(it.quads)
	if !completed {
		diags = append(diags, diag.NewFatal(diag.Runaway,
			fmt.Sprintf("execution limit reached (%d steps); possible infinite loop", maxSteps), token.Position{}))
	}
	return it.result(steps, completed), diags, nil
}

func (it *Interpreter) result(steps int, completed bool) Result {
	mem := make(map[string]any, len(it.memory))
	for k, v := range it.memory {
		mem[k] = v
	}
	return Result{
		Output:    append([]any(nil), it.output...),
		Memory:    mem,
		Steps:     steps,
		Completed: completed,
	}
}

// load resets per-run state and builds the label table. A repeated
// label overwrites its earlier entry — last-label-wins, matching the
// original's dict-assignment construction.
func (it *Interpreter) load(quads []ir.Quadruple) {
	it.quads = quads
	it.labels = make(map[string]int)
	for i, q := range quads {
		if q.Op == "lab" {
			it.labels[q.A1] = i
		}
	}
	it.memory = make(map[string]any)
	it.output = nil
	it.pc = 0
	it.halted = false
}

// step executes the instruction at pc, advancing pc (either to pc+1
// or to a jump target). It returns a non-nil diagnostic for a
// runtime condition covered by the runtime taxonomy (every one of
// them is fatal and ends the run), and a non-nil error only for
// ErrNeedsInput.
func (it *Interpreter) step() (*diag.Diagnostic, error) {
	q := it.quads[it.pc]
	switch q.Op {
	case "asn":
		it.memory[q.A2] = it.resolve(q.A1)
		it.pc++

	case "add", "sub", "mul", "div", "mod":
		d := it.arith(q.Op, q.A1, q.A2, q.A3)
		if d != nil {
			return d, nil
		}
		it.pc++

	case "gt", "lt", "ge", "le", "eq", "ne":
		it.relational(q.Op, q.A1, q.A2, q.A3)
		it.pc++

	case "and", "or":
		it.logical(q.Op, q.A1, q.A2, q.A3)
		it.pc++

	case "not":
		it.memory[q.A3] = boolToNum(!truthy(it.resolve(q.A1)))
		it.pc++

	case "neg":
		it.memory[q.A3] = negate(it.resolve(q.A1))
		it.pc++

	case "if_t":
		if truthy(it.resolve(q.A1)) {
			idx, ok := it.labels[q.A2]
			if !ok {
				return labelNotFound(q.A2), nil
			}
			it.pc = idx
		} else {
			it.pc++
		}

	case "if_f":
		if !truthy(it.resolve(q.A1)) {
			idx, ok := it.labels[q.A2]
			if !ok {
				return labelNotFound(q.A2), nil
			}
			it.pc = idx
		} else {
			it.pc++
		}

	case "goto":
		idx, ok := it.labels[q.A1]
		if !ok {
			return labelNotFound(q.A1), nil
		}
		it.pc = idx

	case "lab":
		it.pc++

	case "rd":
		val, err := it.nextInput()
		if err != nil {
			return nil, err
		}
		it.memory[q.A1] = val
		it.pc++

	case "wri":
		val := it.resolve(q.A1)
		it.output = append(it.output, val)
		if it.Writer != nil {
			fmt.Fprintln(it.Writer, formatValue(val))
		}
		it.pc++

	case "halt":
		it.halted = true

	default:
		d := diag.NewFatal(diag.UnknownOp, fmt.Sprintf("unknown opcode %q", q.Op), token.Position{})
		return &d, nil
	}
	return nil, nil
}

func labelNotFound(name string) *diag.Diagnostic {
	d := diag.NewFatal(diag.LabelNotFound, fmt.Sprintf("jump target %q has no matching label", name), token.Position{})
	return &d
}

func (it *Interpreter) nextInput() (any, error) {
	if len(it.inputs) > 0 {
		raw := it.inputs[0]
		it.inputs = it.inputs[1:]
		return parseInputValue(raw), nil
	}
	if it.stdin != nil {
		line, err := it.stdin.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil && line == "" {
			return int64(0), nil
		}
		return parseInputValue(line), nil
	}
	return nil, ErrNeedsInput
}

func parseInputValue(raw string) any {
	if v, ok := resolveNumeric(raw); ok {
		return v
	}
	return raw
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
