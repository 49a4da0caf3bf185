package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pluginrt version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pluginrt version %s\n", version)
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Printf("go: %s\n", info.GoVersion)
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					fmt.Printf("commit: %s\n", setting.Value)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
