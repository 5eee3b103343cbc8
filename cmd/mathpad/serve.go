package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mathpad/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes editing sessions as a JSON API over HTTP, with a per-session
Server-Sent Events stream of snapshot diffs and Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}

		rt := newRuntime(cmd, cfg)
		defer rt.Close()

		fmt.Printf("Starting mathpad server on :%d (store: %s)\n", cfg.HTTP.Port, cfg.Store.Driver)
		if err := cli.Serve(rt, cfg.HTTP.Port); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("mathpad server stopped gracefully")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides http.port)")
}
