// Command fsrs replays review sequences through the FSRS scheduler and
// prints its effective parameters.
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/scry-fsrs/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
