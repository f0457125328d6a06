package main

import (
	"github.com/alec-rabold/zipindex/cmd"
)

// version is overridden at build time
var version = "dev"

func main() {
	cmd.Execute(version)
}
