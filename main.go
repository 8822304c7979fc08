package main

import (
	"os"

	"github.com/brightsum/brightsum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
