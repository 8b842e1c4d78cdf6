package main

import (
	"os"

	"github.com/pushpin-forge/pushpin/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
