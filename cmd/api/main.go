// server/cmd/api/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "supply-tracker",
	Short:         "School supply tracker API server",
	Long:          "Serves the school supply tracker API and runs its maintenance tasks against the configured MongoDB.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./config", "directory holding config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(checkCmd)
}
