package main

import (
	"os"

	"github.com/ezachrisen/amino/cmd/amino/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
