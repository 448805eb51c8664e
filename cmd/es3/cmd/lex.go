package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/es3lang/es3/internal/lexer"
)

var (
	lexEvalExpr  string
	lexShowPos   bool
	lexShowType  bool
	lexOnlyError bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a script and print the resulting tokens",
	Long: `Tokenize (lex) an ECMAScript program and print the resulting tokens,
useful for debugging the lexer.

Examples:
  es3 lex script.js
  es3 lex -e "var x = 42;"
  es3 lex --show-type --show-pos script.js
  es3 lex --only-errors script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&lexOnlyError, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(lexEvalExpr, args)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(source))
		fmt.Println("---")
	}

	l := lexer.NewFromString(source, lexer.WithFlags(profile.LexerFlags()))

	tokenCount, errorCount := 0, 0
	for {
		tok := l.NextToken()
		if lexOnlyError && tok.Type != lexer.ILLEGAL {
			if tok.Type == lexer.EOF {
				break
			}
			continue
		}

		tokenCount++
		if tok.Type == lexer.ILLEGAL {
			errorCount++
		}
		printToken(tok)
		if tok.Type == lexer.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}
	if len(l.Errors()) > 0 {
		for _, e := range l.Errors() {
			fmt.Printf("lex error: %s at %s\n", e.Message, e.Pos)
		}
	}
	if lexOnlyError && errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok lexer.Token) {
	var output string
	if lexShowType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}
	switch {
	case tok.Type == lexer.EOF:
		output += " EOF"
	case tok.Type == lexer.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tok.Type)
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		output += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(output)
}
