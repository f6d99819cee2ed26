// Command pagecheck runs scripted browser scenarios and reports the results.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pagecheck/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
