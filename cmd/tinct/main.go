package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/tinct/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tinct: %v\n", err)
		os.Exit(1)
	}
}
