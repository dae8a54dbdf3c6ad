package main

import (
	"os"

	"github.com/glint-dev/glint/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
