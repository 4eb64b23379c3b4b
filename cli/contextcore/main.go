package main

import (
	"os"

	contextcorecmder "github.com/creatorcore/contextcore/cmd/contextcore"
)

func main() {
	cmd := contextcorecmder.NewContextcoreCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
