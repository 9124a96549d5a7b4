package main

import (
	"os"

	"github.com/openkraft/inspections/internal/adapters/inbound/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
