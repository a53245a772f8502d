//go:build !windows

package main

// Unix terminals support ANSI escape sequences by default.
func enableWindowsANSI() {}
