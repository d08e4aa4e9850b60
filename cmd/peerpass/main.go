package main

import (
	"os"

	"peerpass/cmd/peerpass/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
