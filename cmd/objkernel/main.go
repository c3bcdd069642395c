// Command objkernel runs and inspects object kernel scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/objkernel/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
