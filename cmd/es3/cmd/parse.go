package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

var (
	parseEvalExpr string
	parseDumpAST  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and print the resulting AST",
	Long: `Parse an ECMAScript program and print its Abstract Syntax Tree.

By default this prints the tree's own re-rendering (ast.Program.String);
--dump-ast instead prints the node structure via kr/pretty, showing
every field on every node.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST node structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(parseEvalExpr, args)
	if err != nil {
		return err
	}

	prog, errs := parseSource(source, filename)
	if err := reportSyntaxErrors(errs); err != nil {
		return err
	}

	if parseDumpAST {
		pretty.Println(prog)
		return nil
	}
	fmt.Println(prog.String())
	return nil
}
