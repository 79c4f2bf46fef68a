// Package main is partscan, a headless tool that lists the parts, clips and
// colors of a vehicle model and exports recolored copies.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
