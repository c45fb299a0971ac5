// Package errors formats pipeline diagnostics with source context —
// line/column information and a caret pointing at the offending
// column — for human-facing CLI output.
package errors

import (
	"fmt"
	"strings"

	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/token"
)

// CompilerError is a single reportable problem: a diagnostic category,
// message, source position, and the file/source text needed to print
// a context line.
type CompilerError struct {
	Category diag.Category
	Message  string
	Source   string
	File     string
	Pos      token.Position
	Fatal    bool
}

// NewCompilerError builds a CompilerError from a raw position and
// message, with no category (used for scanner/low-level errors that
// predate a Diagnostic value).
func NewCompilerError(pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

// FromDiagnostic wraps a pipeline Diagnostic for display.
func FromDiagnostic(d diag.Diagnostic, source, file string) *CompilerError {
	return &CompilerError{
		Category: d.Category,
		Message:  d.Description,
		Source:   source,
		File:     file,
		Pos:      d.Pos,
		Fatal:    d.Fatal,
	}
}

// FromDiagnostics wraps a whole diagnostic slice.
func FromDiagnostics(diags []diag.Diagnostic, source, file string) []*CompilerError {
	errs := make([]*CompilerError, 0, len(diags))
	for _, d := range diags {
		errs = append(errs, FromDiagnostic(d, source, file))
	}
	return errs
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a one-line source snippet and caret.
// If color is true, ANSI color codes are used for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("línea %d, columna %d", e.Pos.Line, e.Pos.Column)
	if e.File != "" {
		header = fmt.Sprintf("%s:%s", e.File, header)
	}
	if e.Category != "" {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Category, header))
	} else {
		sb.WriteString(fmt.Sprintf("%s\n", header))
	}

	if sourceLine := e.getSourceLine(e.Pos.Line); sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors formats a batch of errors, one per diagnostic, with a
// summary header when there is more than one.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d problem(s) found:\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(errs)))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FromStringErrors converts freeform "message at LINE:COLUMN" strings
// into CompilerErrors, for tooling paths that only have plain text to
// work with.
func FromStringErrors(stringErrors []string, source, file string) []*CompilerError {
	errs := make([]*CompilerError, 0, len(stringErrors))
	for _, s := range stringErrors {
		pos, message := parseErrorString(s)
		errs = append(errs, NewCompilerError(pos, message, source, file))
	}
	return errs
}

func parseErrorString(errStr string) (token.Position, string) {
	atIndex := strings.LastIndex(errStr, " at ")
	if atIndex == -1 {
		return token.Position{}, errStr
	}
	posStr := errStr[atIndex+4:]
	message := strings.TrimSpace(errStr[:atIndex])

	var line, column int
	if _, err := fmt.Sscanf(posStr, "%d:%d", &line, &column); err != nil {
		return token.Position{}, errStr
	}
	return token.Position{Line: line, Column: column}, message
}
