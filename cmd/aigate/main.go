package main

import (
	"os"

	"github.com/aigate-dev/aigate/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
