// Command schedsim runs a task scheduling simulation from a feed script.
//
//	schedsim ABCD5AB5CD --processors 4 --unit 100ms
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	enableWindowsANSI()

	if err := newRootCommand().Execute(); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
