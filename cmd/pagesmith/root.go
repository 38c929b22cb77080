package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pagesmith",
	Short: "Brief-to-deployment service for generated web applications",
	Long: `Pagesmith turns plain-language briefs into deployed single-page web
applications. Each accepted job synthesizes a self-contained HTML
document with Claude, commits it to a GitHub repository, publishes it
via GitHub Pages, and notifies the submitter's evaluation endpoint.

With no arguments, starts the HTTP service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
