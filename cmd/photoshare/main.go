package main

import (
	"os"

	"github.com/templui/photoshare/cmd/photoshare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
