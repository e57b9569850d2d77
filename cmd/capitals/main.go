// Command capitals shows the time in South American capitals and keeps
// per-user favorites.
package main

import (
	"os"

	"github.com/mesh-intelligence/capitals/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
