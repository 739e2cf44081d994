// Package main provides the offline screening CLI: it scores local resume
// files without touching the database.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screen [files...]",
	Short: "Score PDF and DOCX resumes offline",
	Long: "screen extracts text from each resume, builds a candidate profile and scores it " +
		"against the rubric. Use \"-\" to read a single document from stdin together with --format.",
	Args:          cobra.MinimumNArgs(1),
	RunE:          runScreen,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
