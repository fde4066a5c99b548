// Package main provides the primetime CLI: scheduling content for
// engagement-optimal publish times and reconciling underperformers.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
