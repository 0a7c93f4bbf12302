// Package main provides the entry point for the AI visibility scanner CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "AI visibility scanner",
	Long:  "Scanner measures whether AI assistants mention and recommend a brand when buyers ask the questions that matter, and how it stacks up against competitors.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
