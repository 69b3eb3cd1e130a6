package main

import (
	"os"

	"github.com/cloud-ru/invest-sim-go/cmd/finsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
