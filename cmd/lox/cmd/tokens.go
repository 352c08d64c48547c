package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smbl64/lox/internal/scanner"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [script]",
	Short: "Print the token stream for a script, one token per line",
	Long: `tokens runs only the scanner and prints every token it produces,
one per line. With no file argument it reads from standard input.

This is useful for debugging the scanner in isolation, independent of
the parser or any later pipeline stage.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(_ *cobra.Command, args []string) error {
	filename := "-"
	if len(args) == 1 {
		filename = args[0]
	}
	source, err := loadSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox tokens: %v\n", err)
		os.Exit(exitIOError)
	}

	toks, errs := scanner.ScanAll(source)
	for _, t := range toks {
		fmt.Println(t)
	}

	if errs.HasErrors() {
		printDiagnostics(errs, source)
		os.Exit(exitStaticErrors)
	}
	return nil
}
