// Command fsanet compiles a finite-state automata network source text
// and runs its analysis requests, emitting the result as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/viant/fsanet/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
