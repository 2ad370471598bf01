package main

import (
	"os"

	"github.com/nsda/portal/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
