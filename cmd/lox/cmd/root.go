package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smbl64/lox/internal/config"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose      bool
	configPath   string
	prettyOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "lox [script]",
	Short: "A tree-walking interpreter for Lox",
	Long: `lox runs programs written in Lox, a small dynamically-typed,
class-based scripting language.

With no arguments, lox starts an interactive REPL. With one argument, it
runs that file. More than one argument is a usage error.`,
	Args:         cobra.MaximumNArgs(1),
	Version:      Version,
	SilenceUsage: false,
	RunE:         runRoot,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("LOX_CONFIG"), "path to .loxrc.yaml")
	rootCmd.PersistentFlags().BoolVar(&prettyOutput, "pretty", false, "render diagnostics with a source-line excerpt")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func runRoot(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitIOError)
	}

	if len(args) == 0 {
		runREPL(cfg)
		return nil
	}

	source, err := loadSource(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: %v\n", err)
		os.Exit(exitIOError)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "running %s\n", args[0])
	}

	os.Exit(runSource(source, os.Stdout, cfg))
	return nil
}

// runREPL implements the interactive prompt, grounded in
// original_source's run_prompt: read a line, run it, repeat until EOF.
// Diagnostics from one line never abort the session.
func runREPL(cfg *config.Config) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		runSource(line, os.Stdout, cfg)
	}
}
