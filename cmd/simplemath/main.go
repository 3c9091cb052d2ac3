// Package main is the entry point for the simplemath CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	opts := &rootOptions{}
	err := newRootCmdWith(opts).Execute()
	opts.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
