// main holds the entry logic for the tracelens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/tracelens/tracelens/cmd"
	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/internal/iostore"
)

// main is the entry point for the tracelens analyzer.
// It dispatches to the Cobra command tree and tears down the
// persistence layer and any active profiling on the way out.
func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
// Cleanup happens here rather than in main so that deferred calls
// survive the non-zero exit path.
func run() int {
	defer func() {
		iostore.CloseStore()
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Cannot stop profiling cleanly", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		return 1
	}
	return 0
}
