// Command tickfsm loads a YAML machine definition and drives it on a fixed
// tick, optionally serving its state and metrics over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
