package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

const mainContext = "main"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "bundle_relayer",
	Short: "Submits atomic transaction bundles to block-engine relays with failover and fee escalation",
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
