// Package main is the entry point for the autotest CLI.
package main

import "autotest.dev/pkg/autotest/cmd"

func main() {
	cmd.Execute()
}
