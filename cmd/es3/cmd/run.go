package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/es3lang/es3/internal/bytecode"
	"github.com/es3lang/es3/internal/eval"
	"github.com/es3lang/es3/internal/jsonvalue"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

var (
	runEvalExpr    string
	runDumpAST     bool
	runEngine      string
	runJSONResult  bool
	runErrorFormat string
	runEnumOrder   string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ECMAScript file or expression",
	Long: `Execute an ECMAScript Third Edition program from a file or inline
expression.

Examples:
  # Run a script file
  es3 run script.js

  # Evaluate an inline expression
  es3 run -e "print('hello');"

  # Run against the bytecode VM instead of the tree-walker
  es3 run --engine bytecode script.js

  # Print the completion value as JSON
  es3 run --json-result script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "print the parsed AST before executing")
	runCmd.Flags().StringVar(&runEngine, "engine", "tree", `evaluation engine: "tree" (tree-walker) or "bytecode" (compiled VM)`)
	runCmd.Flags().BoolVar(&runJSONResult, "json-result", false, "print the program's completion value as JSON")
	runCmd.Flags().StringVar(&runErrorFormat, "error-format", "text", `uncaught-exception format: "text" or "json"`)
	runCmd.Flags().StringVar(&runEnumOrder, "enum-order", "insertion", `object key order for --json-result: "insertion" or "natural"`)
}

func runScript(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(runEvalExpr, args)
	if err != nil {
		return err
	}

	prog, errs := parseSource(source, filename)
	if err := reportSyntaxErrors(errs); err != nil {
		return err
	}

	if runDumpAST {
		fmt.Println("AST:")
		fmt.Println(prog.String())
		fmt.Println()
	}

	var result value.Value
	var caught *runtime.Thrown

	switch runEngine {
	case "tree", "":
		e := eval.New(source, filename)
		e.MaxCallDepth = profile.MaxCallDepth
		e.Flags = profile.LexerFlags()
		comp, c := e.Run(prog)
		result, caught = comp.Value, c
	case "bytecode":
		vm := bytecode.New(object.NewRealm(), source, filename)
		vm.MaxCallDepth = profile.MaxCallDepth
		vm.Flags = profile.LexerFlags()
		result, caught = vm.Run(prog)
	default:
		return fmt.Errorf(`unknown --engine %q, want "tree" or "bytecode"`, runEngine)
	}

	if caught != nil {
		return reportUncaught(caught, source, filename)
	}

	if result == nil {
		result = value.Undefined
	}
	if runJSONResult {
		return printJSONResult(result)
	}
	return nil
}

func printJSONResult(result value.Value) error {
	var order jsonvalue.KeyOrder
	switch runEnumOrder {
	case "", "insertion":
	case "natural":
		order = jsonvalue.NaturalKeyOrder
	default:
		return fmt.Errorf(`unknown --enum-order %q, want "insertion" or "natural"`, runEnumOrder)
	}
	text, err := jsonvalue.EncodeOrdered(result, order)
	if err != nil {
		return fmt.Errorf("encoding result as JSON: %w", err)
	}
	fmt.Println(text)
	return nil
}

func reportUncaught(caught *runtime.Thrown, source, filename string) error {
	switch runErrorFormat {
	case "", "text":
		fmt.Fprintln(os.Stderr, formatThrown(caught, source, filename, !noColor))
	case "json":
		name, message := errorNameAndMessage(caught.Value)
		doc, err := jsonvalue.Encode(caught.Value)
		if err != nil {
			doc = "null"
		}
		fmt.Fprintf(os.Stderr, `{"name":%q,"message":%q,"value":%s}`+"\n", name, message, doc)
	default:
		return fmt.Errorf(`unknown --error-format %q, want "text" or "json"`, runErrorFormat)
	}
	return fmt.Errorf("uncaught exception")
}
