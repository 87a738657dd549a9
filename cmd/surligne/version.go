package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/surligne"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of surligne",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "surligne version %s\n", strings.TrimSpace(surligne.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
