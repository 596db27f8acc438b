// Command edgesql compiles and runs a single SQL statement from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/Konsultn-Engineering/edgesql/cmd/edgesql/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
