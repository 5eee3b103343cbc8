package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/mathpad/internal/presentation/graph"
	"github.com/aretw0/mathpad/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions stored by the configured store (default .mathpad/sessions).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd, loadConfig(cmd))
		defer rt.Close()

		sessions, err := rt.Engine.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return
		}

		fmt.Println("Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the expression of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		format, _ := cmd.Flags().GetString("format")

		rt := newRuntime(cmd, loadConfig(cmd))
		defer rt.Close()

		snap, err := rt.Engine.Snapshot(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		switch format {
		case "json":
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling snapshot: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		case "mermaid":
			fmt.Print(graph.GenerateMermaid(snap))
		case "tree":
			view, err := tui.NewSnapshotRenderer().Render(snap)
			if err != nil {
				fmt.Printf("Error rendering session: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(view)
			fmt.Println(snap.LinearText)
		default:
			fmt.Printf("Unknown format: %s. Supported: json, mermaid, tree\n", format)
			os.Exit(1)
		}
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd, loadConfig(cmd))
		defer rt.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			ids, err := rt.Engine.List(cmd.Context())
			if err != nil {
				fmt.Printf("Error listing sessions: %v\n", err)
				os.Exit(1)
			}
			args = ids
		}

		hasError := false
		for _, sessionID := range args {
			if err := rt.Engine.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().StringP("format", "f", "json", "Output format: json, mermaid or tree")
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}
