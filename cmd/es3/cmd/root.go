package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/es3lang/es3/internal/config"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose     bool
	noColor     bool
	profilePath string
	profile     config.Profile
)

var rootCmd = &cobra.Command{
	Use:   "es3",
	Short: "An ECMAScript Third Edition interpreter and toolkit",
	Long: `es3 runs ECMAScript Third Edition (ECMA-262, 3rd Edition) programs
and exposes the front end (lexer, parser) and both evaluation engines
(tree-walking and bytecode) as separate subcommands for debugging.`,
	Version:           Version,
	PersistentPreRunE: loadProfile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in error output")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "path to a YAML compatibility profile (see internal/config.Profile)")
}

// loadProfile resolves the active config.Profile before any subcommand
// runs: --profile wins when given, otherwise config.Default() (strict
// ECMA-262-3, a finite call-depth guard).
func loadProfile(cmd *cobra.Command, args []string) error {
	if profilePath == "" {
		profile = config.Default()
		return nil
	}
	p, err := config.Load(profilePath)
	if err != nil {
		return fmt.Errorf("loading profile %s: %w", profilePath, err)
	}
	profile = p
	return nil
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
