package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.1.2"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of billsplit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "billsplit version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
