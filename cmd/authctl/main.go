// Package main is the entry point for the authctl binary.
package main

import (
	"os"

	"graphauth/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
