package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Javier-varez/Postform/internal/elfmeta"
)

var (
	// This will be set by goreleaser
	version = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("postform version %s\n", version)
		fmt.Printf("supported Postform version: %s\n", elfmeta.POSTFORM_VERSION)
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(versionCmd)
}
