package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mbt/pkg/runner"
)

func main() {
	sm := runner.NewSignalManager()
	err := Execute(sm.Context())
	sm.Stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
