package main

import (
	"fmt"
	"os"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <form-id>",
	Short: "Print the state of every node of a form",
	Long: `Builds the form, restores the session draft when --session is given, runs every validator
and prints a table of node states (or the JSON snapshot with --json).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f := openForm(cmd, args[0])
		defer f.Close()

		format := cli.FormatMarkdown
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			format = cli.FormatJSON
		}
		if err := cli.Inspect(cmd.Context(), os.Stdout, f, format); err != nil {
			fmt.Printf("Error inspecting form: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addFormFlags(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "Print the snapshot as JSON")
}
