package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mathpad/internal/cli"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit an expression interactively",
	Long: `Starts the structural editor in the terminal.

Keys: Space/Tab move from numerator to denominator or leave a structure,
Enter evaluates, Esc leaves the current structure, Backspace deletes and
unwinds, Ctrl+L clears, Ctrl+C or Ctrl+D quits.

--headless reads plain lines (each line is pasted, then evaluated).
--json reads NDJSON input events and writes one outcome per line.`,
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		fresh, _ := cmd.Flags().GetBool("fresh")
		debug, _ := cmd.Flags().GetBool("debug")

		if jsonMode && headless {
			fmt.Println("Error: --json and --headless cannot be used together.")
			os.Exit(1)
		}

		err := cli.RunEdit(cli.EditOptions{
			Config:    loadConfig(cmd),
			SessionID: sessionID,
			Headless:  headless,
			JSON:      jsonMode,
			Debug:     debug,
			Fresh:     fresh,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringP("session", "s", "", "Persist the document under this session ID")
	editCmd.Flags().Bool("headless", false, "Run in headless mode (plain lines in, results out)")
	editCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	editCmd.Flags().Bool("fresh", false, "Discard the stored document before editing")

	// 'edit' is the default when no command is provided.
	rootCmd.Flags().AddFlagSet(editCmd.Flags())
	rootCmd.Run = editCmd.Run
}
