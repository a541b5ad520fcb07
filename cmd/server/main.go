// Package main provides the padstop command: the vertical padding HTTP server
// and a one-shot compute command.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "padstop",
	Short:         "Vertical padding service",
	Long:          "padstop estimates the extra seconds a delivery stop needs to get from the curb to the door, based on the destination building.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
