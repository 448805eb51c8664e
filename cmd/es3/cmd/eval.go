package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a single inline expression and print its completion value",
	Long: `eval is a shorthand for "es3 run -e <expression> --json-result":
it always prints the program's completion value as JSON.

Example:
  es3 eval "1 + 2 * 3"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runEvalExpr = args[0]
		runJSONResult = true
		defer func() { runEvalExpr, runJSONResult = "", false }()
		if err := runScript(cmd, nil); err != nil {
			return fmt.Errorf("eval: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
