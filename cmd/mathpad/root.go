package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mathpad/internal/cli"
	"github.com/aretw0/mathpad/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathpad",
	Short: "mathpad is a structural math expression editor for the terminal",
	Long: `mathpad turns keystrokes into an expression tree: typing sqrt, abs or a
function name opens a structure, ^ opens an exponent and / a fraction.
The expression is kept as linear text and evaluated on Enter.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

func loadConfig(cmd *cobra.Command) config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newRuntime builds the engine for server-style commands, which log to stderr.
func newRuntime(cmd *cobra.Command, cfg config.Config) *cli.Runtime {
	debug, _ := cmd.Flags().GetBool("debug")
	rt, err := cli.NewRuntime(cfg, cli.NewLogger(cfg.Log, debug, false), debug)
	if err != nil {
		fmt.Printf("Error initializing mathpad: %v\n", err)
		os.Exit(1)
	}
	return rt
}
