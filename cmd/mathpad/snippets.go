package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mathpad/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var snippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: "List the insert palette",
	Long: `Lists the snippets that can be inserted with {"type":"snippet","value":"<id>"}.
Set snippets.dir (or MATHPAD_SNIPPETS_DIR) to serve them from a directory of
markdown documents instead of the built-in palette.`,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")

		rt := newRuntime(cmd, loadConfig(cmd))
		defer rt.Close()

		snippets, err := rt.Engine.Snippets(cmd.Context())
		if err != nil {
			fmt.Printf("Error loading snippets: %v\n", err)
			os.Exit(1)
		}

		table := tui.SnippetTable(snippets)
		if plain {
			fmt.Print(table)
			return
		}

		render, err := tui.NewMarkdownRenderer("")
		if err != nil {
			fmt.Print(table)
			return
		}
		out, err := render(table)
		if err != nil {
			fmt.Print(table)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(snippetsCmd)
	snippetsCmd.Flags().Bool("plain", false, "Print the raw markdown table")
}
