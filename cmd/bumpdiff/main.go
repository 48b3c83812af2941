package main

import (
	"os"

	"github.com/dshills/bumpdiff/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
