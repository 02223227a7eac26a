// Command stride probes sequence traversal by capability tier.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/stride/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
