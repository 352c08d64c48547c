package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smbl64/lox/internal/astjson"
)

var astQuery string

var astCmd = &cobra.Command{
	Use:   "ast [script]",
	Short: "Dump the parsed AST as JSON",
	Long: `ast runs the scanner and parser and prints the resulting AST as
JSON. With no file argument it reads from standard input.

Use --query with a gjson path expression to project a single field out
of the document instead of printing the whole tree, e.g.:

  lox ast --query "0.kind" script.lox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
	astCmd.Flags().StringVar(&astQuery, "query", "", "gjson path to project out of the AST document")
}

func runAST(_ *cobra.Command, args []string) error {
	filename := "-"
	if len(args) == 1 {
		filename = args[0]
	}
	source, err := loadSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox ast: %v\n", err)
		os.Exit(exitIOError)
	}

	_, statements, ok := scanAndParse(source)
	if !ok {
		os.Exit(exitStaticErrors)
	}

	doc, err := astjson.Program(statements)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox ast: %v\n", err)
		os.Exit(exitIOError)
	}

	if astQuery != "" {
		fmt.Println(astjson.Query(doc, astQuery))
		return nil
	}
	fmt.Println(doc)
	return nil
}
