package cmd

import (
	"fmt"
	"os"
)

// readSource resolves the script text and a display filename from
// either an inline expression (exprFlag) or a single positional file
// argument, the same two input modes every subcommand here accepts.
func readSource(exprFlag string, args []string) (source, filename string, err error) {
	if exprFlag != "" {
		return exprFlag, "<eval>", nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e/--eval for inline code")
}
