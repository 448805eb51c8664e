// Package diag formats the diagnosable conditions an ECMA-262-3 front
// end and evaluator raise: lexer/parser syntax errors and evaluator
// runtime errors. Both carry enough context (source, position, file) to
// render a source-context-plus-caret message, in the shape a
// CompilerError-style diagnostic renders compiler errors.
package diag

import (
	"fmt"
	"strings"

	"github.com/es3lang/es3/internal/lexer"
)

// SyntaxError is a single lexical or grammatical error: a token the
// lexer couldn't classify, or a construct the parser couldn't derive.
type SyntaxError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// NewSyntaxError builds a SyntaxError at pos.
func NewSyntaxError(pos lexer.Position, message, source, file string) *SyntaxError {
	return &SyntaxError{Message: message, Source: source, File: file, Pos: pos}
}

// Error implements the error interface with uncolored, no-context output.
func (e *SyntaxError) Error() string { return e.Format(false) }

// Format renders the error with a single line of source context and a
// caret pointing at the offending column. If color is true, ANSI codes
// highlight the caret and message for terminal output.
func (e *SyntaxError) Format(color bool) string {
	return formatSingle("Syntax error", e.File, e.Pos, e.Message, e.Source, color)
}

// FormatWithContext renders the error with contextLines of source on
// either side of the error line.
func (e *SyntaxError) FormatWithContext(contextLines int, color bool) string {
	return formatWithContext("Syntax error", e.File, e.Pos, e.Message, e.Source, contextLines, color)
}

// RuntimeError is a thrown or uncaught ECMAScript exception surfaced to
// the host: its Name is the constructing error class (TypeError,
// ReferenceError, ...), its Stack the call stack active at the throw.
type RuntimeError struct {
	Name    string
	Message string
	Source  string
	File    string
	Pos     lexer.Position
	Stack   StackTrace
}

// NewRuntimeError builds a RuntimeError at pos with no stack attached;
// callers append frames via Stack as the throw unwinds.
func NewRuntimeError(name string, pos lexer.Position, message, source, file string) *RuntimeError {
	return &RuntimeError{Name: name, Message: message, Source: source, File: file, Pos: pos}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string { return e.Format(false) }

// Format renders the error, its source line and caret, and — if any
// frames were recorded — the call stack beneath the message.
func (e *RuntimeError) Format(color bool) string {
	label := e.Name
	if label == "" {
		label = "Error"
	}
	var sb strings.Builder
	sb.WriteString(formatSingle(label, e.File, e.Pos, e.Message, e.Source, color))
	if len(e.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(e.Stack.String())
	}
	return sb.String()
}

// FormatWithContext renders the error with surrounding source context
// plus the call stack, if any.
func (e *RuntimeError) FormatWithContext(contextLines int, color bool) string {
	label := e.Name
	if label == "" {
		label = "Error"
	}
	var sb strings.Builder
	sb.WriteString(formatWithContext(label, e.File, e.Pos, e.Message, e.Source, contextLines, color))
	if len(e.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(e.Stack.String())
	}
	return sb.String()
}

func header(label, file string, pos lexer.Position) string {
	if file != "" {
		return fmt.Sprintf("%s in %s:%d:%d\n", label, file, pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s at line %d:%d\n", label, pos.Line, pos.Column)
}

func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func sourceContext(source string, lineNum, before, after int) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return nil
	}
	start := lineNum - before
	if start < 1 {
		start = 1
	}
	end := lineNum + after
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start-1 : end]
}

func formatSingle(label, file string, pos lexer.Position, message, source string, color bool) string {
	var sb strings.Builder
	sb.WriteString(header(label, file, pos))

	line := sourceLine(source, pos.Line)
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+pos.Column-1))
		writeColored(&sb, "^", "\033[1;31m", color)
		sb.WriteString("\n")
	}
	writeColored(&sb, message, "\033[1m", color)
	return sb.String()
}

func formatWithContext(label, file string, pos lexer.Position, message, source string, contextLines int, color bool) string {
	lines := sourceContext(source, pos.Line, contextLines, contextLines)
	if len(lines) == 0 {
		return formatSingle(label, file, pos, message, source, color)
	}

	var sb strings.Builder
	sb.WriteString(header(label, file, pos))

	startLine := pos.Line - contextLines
	if startLine < 1 {
		startLine = 1
	}
	for i, line := range lines {
		currentLine := startLine + i
		lineNumStr := fmt.Sprintf("%4d | ", currentLine)
		if currentLine == pos.Line {
			writeColored(&sb, lineNumStr+line, "\033[1m", color)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+pos.Column-1))
			writeColored(&sb, "^", "\033[1;31m", color)
			sb.WriteString("\n")
		} else {
			writeColored(&sb, lineNumStr+line, "\033[2m", color)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	writeColored(&sb, message, "\033[1m", color)
	return sb.String()
}

func writeColored(sb *strings.Builder, text, code string, color bool) {
	if color {
		sb.WriteString(code)
	}
	sb.WriteString(text)
	if color {
		sb.WriteString("\033[0m")
	}
}

// FormatSyntaxErrors formats a batch of accumulated syntax errors, the
// way the lexer and parser surface every error found in one pass rather
// than aborting on the first.
func FormatSyntaxErrors(errs []*SyntaxError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d syntax error(s):\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(errs)))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
