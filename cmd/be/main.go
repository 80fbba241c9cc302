package main

import (
	"os"

	"github.com/beworkflow/be/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
