package main

import (
	"os"

	"github.com/ourclass/readlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
