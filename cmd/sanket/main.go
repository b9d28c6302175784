package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sanket",
	Short: "Sanket — in-process event registry toolkit",
	Long:  "Sanket is a Node-style event registry for Go. Use this CLI to run the demo walkthrough or an inspect server over a live registry.",
}

// version is overridable at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sanket version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sanket", version)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
