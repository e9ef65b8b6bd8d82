// Package main provides csim, a trace-driven simulator of a set-associative
// data cache.
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
