// Command chart flattens, renders and inspects chart documents.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/chart/cmd/chart/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
