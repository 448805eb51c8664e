package cmd

import (
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

// formatThrown renders an uncaught script exception the way diag
// renders a syntax error: a name/message header, source context and
// caret, and the call stack active at the throw. t.Value is usually an
// Error instance (with "name"/"message" own properties) but scripts may
// throw any value, so both are read defensively and fall back to
// ToString on the bare thrown value.
func formatThrown(t *runtime.Thrown, source, file string, color bool) string {
	var pos lexer.Position
	if top := t.Traceback.Top(); top != nil {
		pos = top.Position
	}

	name, message := errorNameAndMessage(t.Value)
	rerr := diag.NewRuntimeError(name, pos, message, source, file)
	rerr.Stack = t.Traceback
	return rerr.Format(color)
}

func errorNameAndMessage(v value.Value) (name, message string) {
	name = "Error"
	if obj, ok := v.(value.Object); ok {
		if n, err := obj.Get("name"); err == nil {
			if s, err := value.ToString(n); err == nil {
				name = s.String()
			}
		}
		if m, err := obj.Get("message"); err == nil {
			if s, err := value.ToString(m); err == nil {
				message = s.String()
			}
		}
		return name, message
	}
	if s, err := value.ToString(v); err == nil {
		message = s.String()
	}
	return name, message
}
