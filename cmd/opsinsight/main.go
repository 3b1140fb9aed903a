// Command opsinsight runs the IT infrastructure and commercial department
// analyses over a company JSON snapshot.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
