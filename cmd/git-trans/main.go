package main

import (
	"os"

	"github.com/bianoble/git-trans/cmd/git-trans/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
