package main

import (
	"os"

	"github.com/ayo6706/payment-batch/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
