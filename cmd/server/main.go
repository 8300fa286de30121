package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iceberg-dashboard",
	Short: "Web gateway for the iceberg tracking API",
	Long: `iceberg-dashboard serves the iceberg listing, detail pages, statistics
dashboard and the per-session map view on top of the iceberg REST API.

Configuration is read from config.yaml (or CONFIG_PATH) and environment
variables such as API_BASE_URL, JWT_SECRET and DB_PATH.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, inspectCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
