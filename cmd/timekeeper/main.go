package main

import (
	"os"

	"github.com/psantana5/timekeeper/cmd/timekeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
