package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Manage persisted drafts",
	Long:  `List, inspect, and remove the drafts saved per form and session (files under .formwork/drafts, or Redis with --redis).`,
}

var draftsLsCmd = &cobra.Command{
	Use:   "ls <form-id>",
	Short: "List the sessions that have a draft of a form",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		backend := mustBackend(opts, opts.Logger())
		defer backend.Close()

		sessions, err := backend.Sessions.List(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error listing drafts: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No drafts found.")
			return
		}

		fmt.Printf("Drafts of '%s':\n", args[0])
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var draftsInspectCmd = &cobra.Command{
	Use:   "inspect <form-id> <session-id>",
	Short: "Print a draft",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		formID, sessionID := args[0], args[1]
		opts := options(cmd)
		backend := mustBackend(opts, opts.Logger())
		defer backend.Close()

		draft, err := backend.Sessions.Load(cmd.Context(), formID, sessionID)
		if err != nil {
			fmt.Printf("Error loading draft '%s/%s': %v\n", formID, sessionID, err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(draft, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling draft: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var draftsRmCmd = &cobra.Command{
	Use:   "rm <form-id> [session-id]...",
	Short: "Remove drafts of a form",
	Long:  `Removes the drafts of the given sessions, or every draft of the form with --all.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		formID, sessions := args[0], args[1:]
		opts := options(cmd)
		backend := mustBackend(opts, opts.Logger())
		defer backend.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			ids, err := backend.Sessions.List(cmd.Context(), formID)
			if err != nil {
				fmt.Printf("Error listing drafts: %v\n", err)
				os.Exit(1)
			}
			sessions = ids
		}
		if len(sessions) == 0 {
			fmt.Println("No drafts to remove.")
			return
		}

		hasError := false
		for _, sessionID := range sessions {
			if err := backend.Sessions.Delete(cmd.Context(), formID, sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed draft '%s/%s'\n", formID, sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(draftsCmd)
	draftsCmd.AddCommand(draftsLsCmd)
	draftsCmd.AddCommand(draftsInspectCmd)
	draftsCmd.AddCommand(draftsRmCmd)
	draftsRmCmd.Flags().Bool("all", false, "Remove every draft of the form")
}
