package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smbl64/lox/internal/astjson"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [script]",
	Short: "Dump the resolver's scope-depth map as JSON",
	Long: `resolve runs the scanner, parser, and resolver and prints the
resulting depth map as JSON, keyed by a stable per-expression label
(kind@line#N) rather than the raw internal node ID, so the output is
reproducible across runs of the same program.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(_ *cobra.Command, args []string) error {
	filename := "-"
	if len(args) == 1 {
		filename = args[0]
	}
	source, err := loadSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox resolve: %v\n", err)
		os.Exit(exitIOError)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox resolve: %v\n", err)
		os.Exit(exitIOError)
	}

	_, statements, ok := scanAndParse(source)
	if !ok {
		os.Exit(exitStaticErrors)
	}

	depths, ok := resolveProgram(statements, cfg.Break.Policy, source)
	if !ok {
		os.Exit(exitStaticErrors)
	}

	doc, err := astjson.Depths(statements, depths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox resolve: %v\n", err)
		os.Exit(exitIOError)
	}
	fmt.Println(doc)
	return nil
}
