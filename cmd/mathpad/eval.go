package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/mathpad/internal/cli"
	"github.com/aretw0/mathpad/internal/config"
	"github.com/aretw0/mathpad/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <text>...",
	Short: "Type text into a fresh editor and evaluate it",
	Example: `  mathpad eval "sqrt16 + 2"
  mathpad eval --json "3/4"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		markdown, _ := cmd.Flags().GetBool("markdown")

		cfg := loadConfig(cmd)
		cfg.Store.Driver = config.DriverMemory
		rt := newRuntime(cmd, cfg)
		defer rt.Close()

		out, err := cli.Eval(cmd.Context(), rt.Engine, strings.Join(args, " "))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		switch {
		case jsonMode:
			data, _ := json.Marshal(out)
			fmt.Println(string(data))
		case markdown:
			render, err := tui.NewMarkdownRenderer("")
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			text, err := render(tui.ResultMarkdown(out.Snapshot.LinearText, out.Output))
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(text)
		default:
			fmt.Println(out.Snapshot.LinearText)
			if out.Output != "" {
				fmt.Println(out.Output)
			}
		}

		if out.Result == nil && out.Output != "" {
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("json", false, "Print the outcome as JSON")
	evalCmd.Flags().Bool("markdown", false, "Render the result with glamour")
}
