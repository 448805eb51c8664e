package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/es3lang/es3/internal/bytecode"
)

var dumpEvalExpr string

var dumpCmd = &cobra.Command{
	Use:   "dump [ast|bytecode] [file]",
	Short: "Dump the parsed AST or the compiled bytecode for a script",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpEvalExpr, "eval", "e", "", "dump inline code instead of reading from file")
}

func runDump(cmd *cobra.Command, args []string) error {
	kind := args[0]
	source, filename, err := readSource(dumpEvalExpr, args[1:])
	if err != nil {
		return err
	}

	prog, errs := parseSource(source, filename)
	if err := reportSyntaxErrors(errs); err != nil {
		return err
	}

	switch kind {
	case "ast":
		pretty.Println(prog)
		return nil
	case "bytecode":
		chunk := bytecode.Compile(prog)
		fmt.Print(bytecode.DisassembleToString(chunk, filename))
		return nil
	default:
		return fmt.Errorf(`unknown dump target %q, want "ast" or "bytecode"`, kind)
	}
}
