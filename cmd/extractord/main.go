package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	var root = &cobra.Command{Use: "extractord", Version: version}

	root.AddCommand(serveCMD(), extractCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
