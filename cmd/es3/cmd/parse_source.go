package cmd

import (
	"fmt"
	"os"

	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/parser"
)

// parseSource lexes and parses source under the active profile's
// language-extension flags, returning every accumulated syntax error
// rather than just the first.
func parseSource(source, filename string) (*ast.Program, []*diag.SyntaxError) {
	l := lexer.NewFromString(source, lexer.WithFlags(profile.LexerFlags()))
	p := parser.New(l, source, filename)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

// reportSyntaxErrors prints errs to stderr in batched "[i of n]" style
// and returns a summarizing error, or nil if errs is empty.
func reportSyntaxErrors(errs []*diag.SyntaxError) error {
	if len(errs) == 0 {
		return nil
	}
	fmt.Fprint(os.Stderr, diag.FormatSyntaxErrors(errs, !noColor))
	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("parsing failed with %d error(s)", len(errs))
}
