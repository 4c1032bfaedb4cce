package main

import (
	"os"

	"github.com/solatis/tallyboard/cmd/tallyboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
