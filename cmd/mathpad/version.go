package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/mathpad"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mathpad",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mathpad version %s\n", strings.TrimSpace(mathpad.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
