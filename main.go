package main

import (
	"os"

	"github.com/BishopFox/cloudcensus/cli"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           os.Args[0],
		Version:       globals.CLOUDCENSUS_VERSION,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func main() {
	rootCmd.AddCommand(cli.AWSCommands)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
