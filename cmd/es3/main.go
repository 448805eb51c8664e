package main

import (
	"fmt"
	"os"

	"github.com/es3lang/es3/cmd/es3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
