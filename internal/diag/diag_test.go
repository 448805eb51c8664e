package diag

import (
	"strings"
	"testing"

	"github.com/es3lang/es3/internal/lexer"
)

func TestStackFrameString(t *testing.T) {
	tests := []struct {
		name     string
		frame    StackFrame
		expected string
	}{
		{
			name:     "frame with position",
			frame:    StackFrame{FunctionName: "myFunction", Position: lexer.Position{Line: 10, Column: 5}},
			expected: "myFunction [line: 10, column: 5]",
		},
		{
			name:     "frame without position",
			frame:    StackFrame{FunctionName: "<program>"},
			expected: "<program>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frame.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStackTraceStringNewestFirst(t *testing.T) {
	var trace StackTrace
	trace = trace.Push(StackFrame{FunctionName: "main", Position: lexer.Position{Line: 20, Column: 1}})
	trace = trace.Push(StackFrame{FunctionName: "foo", Position: lexer.Position{Line: 15, Column: 5}})
	trace = trace.Push(StackFrame{FunctionName: "bar", Position: lexer.Position{Line: 10, Column: 3}})

	want := "bar [line: 10, column: 3]\nfoo [line: 15, column: 5]\nmain [line: 20, column: 1]"
	if got := trace.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if trace.Depth() != 3 {
		t.Errorf("depth: got %d, want 3", trace.Depth())
	}
	if top := trace.Top(); top == nil || top.FunctionName != "bar" {
		t.Errorf("top: got %v, want bar", top)
	}
}

func TestStackTracePushDoesNotMutateOriginal(t *testing.T) {
	var base StackTrace
	base = base.Push(StackFrame{FunctionName: "main"})
	withCall := base.Push(StackFrame{FunctionName: "helper"})

	if base.Depth() != 1 {
		t.Errorf("base should be unaffected by Push, got depth %d", base.Depth())
	}
	if withCall.Depth() != 2 {
		t.Errorf("withCall: got depth %d, want 2", withCall.Depth())
	}
}

func TestEmptyStackTraceStringIsEmpty(t *testing.T) {
	var trace StackTrace
	if trace.String() != "" {
		t.Errorf("empty trace should format as empty string, got %q", trace.String())
	}
	if trace.Top() != nil {
		t.Errorf("empty trace Top() should be nil")
	}
}

func TestSyntaxErrorFormat(t *testing.T) {
	src := "var x = ;\n"
	e := NewSyntaxError(lexer.Position{Line: 1, Column: 9}, "unexpected token ';'", src, "")
	got := e.Format(false)

	if !strings.Contains(got, "Syntax error at line 1:9") {
		t.Errorf("missing header, got:\n%s", got)
	}
	if !strings.Contains(got, "var x = ;") {
		t.Errorf("missing source line, got:\n%s", got)
	}
	if !strings.Contains(got, "^") {
		t.Errorf("missing caret, got:\n%s", got)
	}
	if !strings.Contains(got, "unexpected token ';'") {
		t.Errorf("missing message, got:\n%s", got)
	}
}

func TestSyntaxErrorFormatWithFile(t *testing.T) {
	e := NewSyntaxError(lexer.Position{Line: 3, Column: 1}, "boom", "", "main.js")
	got := e.Format(false)
	if !strings.HasPrefix(got, "Syntax error in main.js:3:1") {
		t.Errorf("got:\n%s", got)
	}
}

func TestSyntaxErrorFormatWithContext(t *testing.T) {
	src := "a;\nb;\nc + ;\nd;\ne;\n"
	e := NewSyntaxError(lexer.Position{Line: 3, Column: 5}, "unexpected ';'", src, "")
	got := e.FormatWithContext(1, false)

	for _, want := range []string{"b;", "c + ;", "d;"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected context to contain %q, got:\n%s", want, got)
		}
	}
}

func TestFormatSyntaxErrorsBatches(t *testing.T) {
	errs := []*SyntaxError{
		NewSyntaxError(lexer.Position{Line: 1, Column: 1}, "first", "", ""),
		NewSyntaxError(lexer.Position{Line: 2, Column: 1}, "second", "", ""),
	}
	got := FormatSyntaxErrors(errs, false)
	if !strings.Contains(got, "2 syntax error(s)") {
		t.Errorf("missing batch header, got:\n%s", got)
	}
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("missing one of the error messages, got:\n%s", got)
	}
}

func TestRuntimeErrorFormatIncludesStack(t *testing.T) {
	var stack StackTrace
	stack = stack.Push(StackFrame{FunctionName: "main", Position: lexer.Position{Line: 5, Column: 1}})
	stack = stack.Push(StackFrame{FunctionName: "f", Position: lexer.Position{Line: 2, Column: 3}})

	e := NewRuntimeError("TypeError", lexer.Position{Line: 2, Column: 3}, "undefined is not a function", "", "")
	e.Stack = stack
	got := e.Format(false)

	if !strings.Contains(got, "TypeError at line 2:3") {
		t.Errorf("missing header, got:\n%s", got)
	}
	if !strings.Contains(got, "undefined is not a function") {
		t.Errorf("missing message, got:\n%s", got)
	}
	if !strings.Contains(got, "f [line: 2, column: 3]") {
		t.Errorf("missing stack frame, got:\n%s", got)
	}
}

func TestRuntimeErrorDefaultsNameToError(t *testing.T) {
	e := NewRuntimeError("", lexer.Position{Line: 1, Column: 1}, "boom", "", "")
	if !strings.HasPrefix(e.Format(false), "Error at line 1:1") {
		t.Errorf("got:\n%s", e.Format(false))
	}
}
