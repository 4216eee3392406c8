package main

import (
	"os"

	"github.com/trunk-io/analytics-cli/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
