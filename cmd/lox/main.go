// Command lox runs the tree-walking Lox interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/smbl64/lox/cmd/lox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cmd.ExitUsage)
	}
}
