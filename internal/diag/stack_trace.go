package diag

import (
	"fmt"
	"strings"

	"github.com/es3lang/es3/internal/lexer"
)

// StackFrame is one call-stack entry: the function active and where in
// the caller it was invoked from.
type StackFrame struct {
	Position     lexer.Position
	FunctionName string
}

// String renders "name [line: N, column: M]", or just name if no
// position was recorded (the anonymous top-level program frame).
func (sf StackFrame) String() string {
	if sf.Position == (lexer.Position{}) {
		return sf.FunctionName
	}
	return fmt.Sprintf("%s [line: %d, column: %d]", sf.FunctionName, sf.Position.Line, sf.Position.Column)
}

// StackTrace is a call stack, oldest frame (bottom, the entry point)
// first, newest (top, where the throw happened) last.
type StackTrace []StackFrame

// String renders the trace newest frame first, matching how a thrown
// exception's stack is conventionally read.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Push returns a new trace with frame appended on top. StackTrace is
// treated as immutable so a try-frame can cheaply snapshot "the trace at
// the moment of entry" by holding the slice header.
func (st StackTrace) Push(frame StackFrame) StackTrace {
	next := make(StackTrace, len(st)+1)
	copy(next, st)
	next[len(st)] = frame
	return next
}

// Top returns the most recently pushed frame, or nil if the trace is empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Depth returns the number of frames in the stack.
func (st StackTrace) Depth() int { return len(st) }
