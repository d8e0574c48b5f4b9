package main

import (
	"os"

	"github.com/FolkXa/mediaconv/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
