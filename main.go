package main

import (
	"os"

	"github.com/divyarao54/drone-coordinator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
