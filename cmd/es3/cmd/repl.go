package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/es3lang/es3/internal/eval"
	"github.com/es3lang/es3/internal/value"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `repl reads one line at a time from stdin, evaluates it against a
single persistent global scope, and prints its completion value — so a
variable declared on one line is visible on the next.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	e := eval.New("", "<repl>")
	e.MaxCallDepth = profile.MaxCallDepth
	e.Flags = profile.LexerFlags()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			replEvalLine(e, line)
		}
		fmt.Fprint(os.Stdout, "> ")
	}
	fmt.Fprintln(os.Stdout)
	return scanner.Err()
}

func replEvalLine(e *eval.Evaluator, line string) {
	e.Source = line
	prog, errs := parseSource(line, "<repl>")
	if len(errs) > 0 {
		for _, se := range errs {
			fmt.Fprintln(os.Stderr, se.Format(!noColor))
		}
		return
	}

	comp, caught := e.Run(prog)
	if caught != nil {
		fmt.Fprintln(os.Stderr, formatThrown(caught, line, "<repl>", !noColor))
		return
	}
	if comp.Value == nil || comp.Value.Kind() == value.KindUndefined {
		return
	}
	s, err := value.ToString(comp.Value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(s.String())
}
